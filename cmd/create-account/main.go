package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dlsms/dlsms-backend/internal/config"
	"github.com/dlsms/dlsms-backend/internal/database"
	"github.com/dlsms/dlsms-backend/internal/logger"
	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/repository"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// create-account inserts an already verified tutor or student. It is meant
// for bootstrapping environments where no mail driver is configured.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	accounts := repository.NewAccountRepository(pool)
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Verified Account ===")

	role, err := model.ParseRole(prompt(reader, "Role (tutor/student) [tutor]: ", string(model.RoleTutor)))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	account := &model.Account{
		ID:                uuid.New(),
		Role:              role,
		FirstName:         prompt(reader, "First name: ", ""),
		LastName:          prompt(reader, "Last name: ", ""),
		Institution:       prompt(reader, "Institution: ", ""),
		VerificationState: model.VerificationVerified,
	}
	if role == model.RoleStudent {
		account.StudentID = prompt(reader, "Student ID: ", "")
	}
	account.Email = service.NormalizeEmail(prompt(reader, "Email: ", ""))

	if account.FirstName == "" || account.LastName == "" || account.Institution == "" || account.Email == "" {
		fmt.Println("Error: first name, last name, institution and email are required")
		return
	}
	if role == model.RoleStudent && account.StudentID == "" {
		fmt.Println("Error: Student ID is required")
		return
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	if len(bytePassword) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	account.PasswordHash, err = hasher.Hash(string(bytePassword))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	if err := accounts.Insert(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			fmt.Printf("Error: %s is already registered\n", account.Email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create account")
	}

	fmt.Printf("\nSuccess! %s '%s %s' (%s) created with ID: %s\n",
		role.Title(), account.FirstName, account.LastName, account.Email, account.ID)
}

func prompt(reader *bufio.Reader, label, fallback string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return fallback
}
