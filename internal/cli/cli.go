// Package cli implements the motopay command line client. Tokens are kept in
// a file so a login survives between invocations.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/motopay/portal/api"
	"github.com/motopay/portal/auth"
	"github.com/motopay/portal/internal/utils"
	"github.com/motopay/portal/motopay"
	"github.com/motopay/portal/session"
	"github.com/motopay/portal/tokens"
)

var (
	ErrUsage          = errors.New("usage")
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrUnknownCommand = errors.New("unknown command")
)

const usage = `usage: motopay <command> [flags]

commands:
  login -email <email> [-password <password>]   password falls back to $MOTOPAY_PASSWORD
  logout
  whoami
  lookup [-type plate|vin|tin] <identifier>
  compliance <vehicle-id>
  price -id <pricing-id> [-price <amount>] [-fee <amount>]
`

// App holds what every command needs.
type App struct {
	API    api.Config
	Tokens tokens.KV
	HTTP   *http.Client // optional
	Out    io.Writer
	Err    io.Writer
}

type client struct {
	store    *tokens.Manager
	services *motopay.Client
	session  *session.Context
}

func (a *App) newClient() *client {
	store := tokens.New(a.Tokens)
	notifier := api.NotifierFunc(func(_ context.Context, n api.Notification) {
		fmt.Fprintf(a.Err, "[%s] %s\n", n.Level, n.Message)
	})

	opts := []api.Option{api.WithNotifier(notifier)}
	if a.HTTP != nil {
		opts = append(opts, api.WithHTTPClient(a.HTTP))
	}
	gw := api.New(a.API, store, opts...)
	authSvc := auth.NewService(gw, store)

	return &client{
		store:    store,
		services: motopay.New(gw),
		session:  session.New(authSvc, store),
	}
}

// Run executes one command. args excludes the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.Err, usage)
		return ErrUsage
	}

	c := a.newClient()
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, c, rest)
	case "logout":
		return a.logout(ctx, c)
	case "whoami":
		return a.whoami(ctx, c)
	case "lookup":
		return a.lookup(ctx, c, rest)
	case "compliance":
		return a.compliance(ctx, c, rest)
	case "price":
		return a.price(ctx, c, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.Out, usage)
		return nil
	default:
		fmt.Fprint(a.Err, usage)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

func (a *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

func (a *App) login(ctx context.Context, c *client, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *password == "" {
		*password = os.Getenv("MOTOPAY_PASSWORD")
	}

	req := auth.LoginRequest{Email: strings.TrimSpace(*email), Password: *password}
	if err := auth.NewValidator().ValidateLogin(req); err != nil {
		return err
	}

	resp, err := c.session.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	user := c.session.User()
	if user == nil {
		return fmt.Errorf("[cli login] %s", firstNonEmpty(resp.Message, resp.Error, "login failed"))
	}
	fmt.Fprintf(a.Out, "Logged in as %s (%s)\n", user.DisplayName(), user.Role)
	return nil
}

func (a *App) logout(ctx context.Context, c *client) error {
	if _, ok := c.store.AccessToken(); !ok {
		fmt.Fprintln(a.Out, "Not logged in")
		return nil
	}
	// local tokens are cleared whatever the backend answers
	_ = c.session.Logout(ctx)
	fmt.Fprintln(a.Out, "Logged out")
	return nil
}

func (a *App) whoami(ctx context.Context, c *client) error {
	c.session.Initialize(ctx)
	user := c.session.User()
	if user == nil {
		return ErrNotLoggedIn
	}
	return a.printJSON(user)
}

func (a *App) lookup(ctx context.Context, c *client, args []string) error {
	fs := a.flags("lookup")
	kind := fs.String("type", string(motopay.LookupPlate), "identifier type: plate, vin or tin")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: lookup takes one identifier", ErrUsage)
	}

	resp, err := c.services.Vehicles.LookupVehicle(ctx, motopay.VehicleLookupRequest{
		Identifier: fs.Arg(0),
		Type:       motopay.LookupType(*kind),
	})
	if err != nil {
		return err
	}
	return a.printData(resp.Data, resp.Message)
}

func (a *App) compliance(ctx context.Context, c *client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: compliance takes one vehicle id", ErrUsage)
	}

	resp, err := c.services.Vehicles.GetVehicleCompliance(ctx, args[0])
	if err != nil {
		return err
	}
	if !resp.OK() {
		return a.printData(resp.Data, resp.Message)
	}

	vc := resp.Data
	label := vc.VehicleID
	if vc.Vehicle != nil {
		label = vc.Vehicle.PlateNumber
	}
	fmt.Fprintf(a.Out, "%s  %s\n", label, vc.OverallStatus)
	for _, d := range vc.Documents {
		fmt.Fprintf(a.Out, "  %-22s %-9s %10.2f\n", d.Name, d.Status, d.Amount)
	}
	fmt.Fprintf(a.Out, "Renewals due: %d, total %.2f\n", len(vc.RequiredRenewals), vc.TotalRenewalCost)
	return nil
}

func (a *App) price(ctx context.Context, c *client, args []string) error {
	fs := a.flags("price")
	id := fs.String("id", "", "pricing id")
	price := fs.Float64("price", 0, "new price")
	fee := fs.Float64("fee", 0, "new service fee")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", ErrUsage)
	}

	var req motopay.UpdatePricingRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "price":
			req.Price = utils.Ptr(*price)
		case "fee":
			req.ServiceFee = utils.Ptr(*fee)
		}
	})
	if req.Price == nil && req.ServiceFee == nil {
		return fmt.Errorf("%w: nothing to update", ErrUsage)
	}

	resp, err := c.services.Pricing.UpdatePricing(ctx, *id, req)
	if err != nil {
		return err
	}
	return a.printData(resp.Data, resp.Message)
}

func (a *App) printData(data any, message string) error {
	if message != "" {
		fmt.Fprintln(a.Err, message)
	}
	return a.printJSON(data)
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("[cli printJSON] %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
