package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/pkg/config"
	"github.com/newwork/people-service/pkg/database"
	"github.com/newwork/people-service/pkg/logger"
)

const seedPassword = "password123"

// Provisions the demo org: a manager with two reports and one coworker
// outside the team, each with a fully populated profile. Intended for
// local development together with the switch-user feature.
func main() {
	cfg, err := config.Load("people-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("people-seed", cfg.Server.Environment)

	if cfg.Server.Environment == config.EnvProduction {
		log.Fatal().Msg("refusing to seed demo data in production")
	}

	// New also brings the schema up to date before seeding
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	absences := repository.NewAbsenceRepository(db)
	feedback := repository.NewFeedbackRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash seed password")
	}

	createUser := func(employeeID, email, role string, managerID *string) *repository.User {
		user := &repository.User{
			EmployeeID:   employeeID,
			Email:        email,
			PasswordHash: string(hash),
			Role:         role,
			ManagerID:    managerID,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatal().Err(err).Str("email", email).Msg("failed to create user")
		}
		return user
	}

	manager := createUser("EMP0001", "marta.weber@newwork.com", repository.RoleManager, nil)
	reportOne := createUser("EMP0002", "jonas.lindqvist@newwork.com", repository.RoleEmployee, &manager.ID)
	reportTwo := createUser("EMP0003", "priya.raman@newwork.com", repository.RoleEmployee, &manager.ID)
	coworker := createUser("EMP0004", "tomasz.kowalski@newwork.com", repository.RoleEmployee, nil)

	str := func(s string) *string { return &s }
	f64 := func(f float64) *float64 { return &f }
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	createProfile := func(p *repository.Profile) {
		if err := profiles.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Str("user_id", p.UserID).Msg("failed to create profile")
		}
	}

	createProfile(&repository.Profile{
		UserID:           manager.ID,
		LegalFirstName:   "Marta",
		LegalLastName:    "Weber",
		Department:       str("Engineering"),
		JobCode:          str("ENG-M2"),
		JobFamily:        str("Software"),
		JobLevel:         str("M2"),
		EmploymentStatus: "ACTIVE",
		HireDate:         time.Date(2017, 3, 1, 0, 0, 0, 0, time.UTC),
		FTE:              1.0,
		JobTitle:         str("Engineering Manager"),
		OfficeLocation:   str("Berlin"),
		WorkLocationType: str("HYBRID"),
		Bio:              str("Leads the platform team."),
		Skills:           str("leadership, distributed systems"),
		PersonalEmail:    str("marta.w@example.com"),
		PersonalPhone:    str("+49 151 0000001"),
		HomeAddress:      str("Kastanienallee 12, Berlin"),
		DateOfBirth:      date(1984, 6, 2),
		AbsenceBalanceDays: f64(27),
		Salary:             f64(112000),
		PerformanceRating:  str("EXCEEDS"),
	})

	createProfile(&repository.Profile{
		UserID:           reportOne.ID,
		LegalFirstName:   "Jonas",
		LegalLastName:    "Lindqvist",
		Department:       str("Engineering"),
		JobCode:          str("ENG-3"),
		JobFamily:        str("Software"),
		JobLevel:         str("Senior"),
		EmploymentStatus: "ACTIVE",
		HireDate:         time.Date(2021, 9, 15, 0, 0, 0, 0, time.UTC),
		FTE:              1.0,
		PreferredName:    str("Jon"),
		JobTitle:         str("Senior Software Engineer"),
		OfficeLocation:   str("Berlin"),
		WorkLocationType: str("REMOTE"),
		Bio:              str("Backend, mostly Postgres plumbing."),
		Skills:           str("go, postgres, rabbitmq"),
		PersonalEmail:    str("jonas.l@example.com"),
		EmergencyContactName:         str("Elsa Lindqvist"),
		EmergencyContactPhone:        str("+46 70 0000002"),
		EmergencyContactRelationship: str("spouse"),
		DateOfBirth:        date(1991, 11, 23),
		AbsenceBalanceDays: f64(24),
		Salary:             f64(88000),
		PerformanceRating:  str("MEETS"),
	})

	createProfile(&repository.Profile{
		UserID:           reportTwo.ID,
		LegalFirstName:   "Priya",
		LegalLastName:    "Raman",
		Department:       str("Engineering"),
		JobCode:          str("ENG-2"),
		JobFamily:        str("Software"),
		JobLevel:         str("Mid"),
		EmploymentStatus: "ACTIVE",
		HireDate:         time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC),
		FTE:              0.8,
		JobTitle:         str("Software Engineer"),
		OfficeLocation:   str("Munich"),
		WorkLocationType: str("ONSITE"),
		Skills:           str("go, react"),
		PersonalEmail:    str("priya.r@example.com"),
		VisaWorkPermit:   str("EU Blue Card, valid through 2027-05"),
		DateOfBirth:        date(1996, 2, 14),
		AbsenceBalanceDays: f64(22),
		Salary:             f64(71000),
		PerformanceRating:  str("MEETS"),
	})

	createProfile(&repository.Profile{
		UserID:           coworker.ID,
		LegalFirstName:   "Tomasz",
		LegalLastName:    "Kowalski",
		Department:       str("Sales"),
		JobCode:          str("SAL-2"),
		JobFamily:        str("Sales"),
		JobLevel:         str("Mid"),
		EmploymentStatus: "ACTIVE",
		HireDate:         time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC),
		FTE:              1.0,
		PreferredName:    str("Tom"),
		JobTitle:         str("Account Executive"),
		OfficeLocation:   str("Warsaw"),
		WorkLocationType: str("HYBRID"),
		PersonalEmail:    str("tomasz.k@example.com"),
		DateOfBirth:        date(1993, 8, 30),
		AbsenceBalanceDays: f64(26),
		Salary:             f64(65000),
		PerformanceRating:  str("MEETS"),
	})

	// A pending request for the manager's inbox and one feedback record
	// so every screen has something to show.
	nextMonday := time.Now().UTC().AddDate(0, 0, 14)
	if err := absences.Create(ctx, &repository.Absence{
		UserID:            reportOne.ID,
		ManagerIDSnapshot: &manager.ID,
		StartDate:         nextMonday,
		EndDate:           nextMonday.AddDate(0, 0, 4),
		Type:              repository.AbsenceVacation,
		Status:            repository.StatusPending,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to create demo absence")
	}

	if err := feedback.Create(ctx, &repository.Feedback{
		AuthorID:    reportTwo.ID,
		RecipientID: reportOne.ID,
		Text:        "Jon unblocked the migration rollout twice this sprint and documented the runbook afterwards.",
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to create demo feedback")
	}

	log.Info().
		Str("manager", manager.Email).
		Str("password", seedPassword).
		Msg("demo org seeded")
}
