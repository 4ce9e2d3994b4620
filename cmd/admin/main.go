// Command admin bootstraps an administrator account. It connects straight to
// the database, so it is meant to run on the server host (or inside the app
// container) rather than over the API.
//
// Usage:
//
//	admin -username root -email root@example.com [-d <dsn>]
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pawmate/pawmate/internal/common"
	"github.com/pawmate/pawmate/internal/dbx"
	"github.com/pawmate/pawmate/internal/server/auth"
	"github.com/pawmate/pawmate/internal/server/config"
	"github.com/pawmate/pawmate/internal/server/models"
	"github.com/pawmate/pawmate/internal/server/repositories/repomanager"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return pw, err
}

func getSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func run() error {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	dsn := flag.String("d", "", "database DSN (defaults to server config)")
	flag.Parse()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if *dsn != "" {
		cfg.DatabaseDSN = *dsn
	} else if env := os.Getenv("DATABASE_DSN"); env != "" {
		cfg.DatabaseDSN = env
	}

	reader := bufio.NewReader(os.Stdin)
	var err error
	if *username == "" {
		if *username, err = inputNonEmpty(reader, "Username: "); err != nil {
			return err
		}
	}
	if *email == "" {
		if *email, err = inputNonEmpty(reader, "Email: "); err != nil {
			return err
		}
	}

	password, err := getPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if string(password) != string(confirm) {
		return errors.New("passwords do not match")
	}
	if err := auth.ValidatePassword(string(password), *username); err != nil {
		return errors.New("password must be at least 8 characters and not all digits")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := rm.Users(tx).Create(ctx, &models.User{
			Username:     *username,
			Email:        strings.ToLower(*email),
			PasswordHash: hash,
			IsAdmin:      true,
			IsActive:     true,
		})
		if err != nil {
			return err
		}
		profile, err := rm.Profiles(tx).Create(ctx, user.ID)
		if err != nil {
			return err
		}
		// admins are created verified; no mail round-trip needed
		return rm.Profiles(tx).MarkEmailVerified(ctx, profile.UserID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("user %q already exists", *username)
		}
		return err
	}

	fmt.Printf("admin user %q created\n", *username)
	return nil
}

func inputNonEmpty(reader *bufio.Reader, prompt string) (string, error) {
	for {
		v, err := getSimpleText(reader, prompt)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
