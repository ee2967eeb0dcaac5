// Command fakebackend serves the in-process MotoPay backend with a few
// demo accounts and vehicles, for running the portal and CLI locally.
package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/motopay/portal/internal/config"
	"github.com/motopay/portal/internal/fakebackend"
	"github.com/motopay/portal/motopay"
	"github.com/motopay/portal/users"
)

type demoUser struct {
	user     users.User
	password string
}

var demoUsers = []demoUser{
	{users.User{Email: "agent@motopay.ng", FirstName: "Ada", LastName: "Obi", Role: users.RoleAgent}, "agent-pass"},
	{users.User{Email: "admin@motopay.ng", FirstName: "Bola", LastName: "Ade", Role: users.RoleAdmin}, "admin-pass"},
	{users.User{Email: "super@motopay.ng", FirstName: "Chidi", LastName: "Eze", Role: users.RoleSuperAdmin}, "super-pass"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	backend := fakebackend.New(fakebackend.WithSecret(config.GetEnv("FAKE_BACKEND_SECRET", "local-dev-secret")))
	if err := seed(backend); err != nil {
		log.Fatal().Err(err).Msg("failed to seed fake backend")
	}

	addr := ":" + config.GetEnv("PORT", "5000")
	log.Info().Str("addr", addr).Msg("fake backend listening")
	srv := &http.Server{Addr: addr, Handler: backend, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("fake backend stopped")
	}
}

func seed(b *fakebackend.Backend) error {
	for _, d := range demoUsers {
		if _, err := b.AddUser(d.user, d.password); err != nil {
			return err
		}
		log.Info().Str("email", d.user.Email).Str("password", d.password).Str("role", string(d.user.Role)).Msg("demo account")
	}

	car := b.AddVehicle(motopay.Vehicle{
		PlateNumber: "LAG-123-AA",
		VIN:         "1HGCM82633A004352",
		TIN:         "TIN-0001",
		Make:        "Toyota",
		Model:       "Corolla",
		Year:        2018,
		VehicleType: "private",
		OwnerName:   "Ngozi Okafor",
	})
	b.SetCompliance(car.ID,
		[]fakebackend.ComplianceItem{{Name: "Vehicle License", Price: 3000, ExpiryDate: "2027-03-01"}},
		[]fakebackend.ComplianceItem{{Name: "Road Worthiness", Price: 5000, ExpiryDate: "2026-08-01"}, {Name: "Insurance", Price: 15000, ExpiryDate: "2026-09-15"}},
		nil,
	)

	bus := b.AddVehicle(motopay.Vehicle{
		PlateNumber: "ABJ-456-KD",
		Make:        "Toyota",
		Model:       "Hiace",
		Year:        2021,
		VehicleType: "commercial",
		OwnerName:   "Musa Bello",
	})
	b.SetCompliance(bus.ID,
		[]fakebackend.ComplianceItem{{Name: "Vehicle License", Price: 6000, ExpiryDate: "2027-01-10"}, {Name: "Insurance", Price: 25000, ExpiryDate: "2027-01-10"}},
		nil,
		[]fakebackend.ComplianceItem{{Name: "Road Worthiness", Price: 8000}},
	)

	b.AddException(motopay.Exception{VehicleID: car.ID, Type: "PAYMENT", Description: "Card debited but renewal not issued", Priority: motopay.PriorityHigh})
	b.AddException(motopay.Exception{VehicleID: bus.ID, Type: "COMPLIANCE", Description: "Insurance certificate number rejected by insurer", Priority: motopay.PriorityMedium})

	for _, p := range []motopay.PricingConfig{
		{Name: "Vehicle License", DocumentType: motopay.DocVehicleLicense, VehicleType: "private", Price: 3000, ServiceFee: 250, IsActive: true},
		{Name: "Road Worthiness", DocumentType: motopay.DocRoadWorthiness, VehicleType: "private", Price: 5000, ServiceFee: 250, IsActive: true},
		{Name: "Third Party Insurance", DocumentType: motopay.DocInsurance, VehicleType: "private", Price: 15000, ServiceFee: 500, IsActive: true},
	} {
		b.AddPricing(p)
	}
	return nil
}
