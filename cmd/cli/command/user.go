package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"litreview/database"
	"litreview/internal/microservices/http-api/dto"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/validation"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User account commands",
}

// createUserCmd registers an account with the same rules as the signup page.
var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var form dto.SignupForm
		form.Username, _ = cmd.Flags().GetString("username")
		form.Email, _ = cmd.Flags().GetString("email")
		form.FirstName, _ = cmd.Flags().GetString("first-name")
		form.LastName, _ = cmd.Flags().GetString("last-name")
		form.Password1, _ = cmd.Flags().GetString("password")
		form.Password2 = form.Password1

		cfg, db, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		authService := service.NewAuthService(
			repository.NewUserRepository(db),
			repository.NewRefreshTokenRepository(db),
			nil,
			cfg,
		)

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		user, err := authService.Register(ctx, form)
		if err != nil {
			return describeSignupError(err)
		}

		fmt.Println("✓ User created.")
		fmt.Printf("UserID: %s\n", user.ID)
		fmt.Printf("Username: %s\n", user.Username)
		return nil
	},
}

// describeSignupError flattens field errors into one line per field.
func describeSignupError(err error) error {
	if ve, ok := validation.As(err); ok {
		fields := make([]string, 0, len(ve.Fields))
		for field := range ve.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		lines := make([]string, 0, len(fields))
		for _, field := range fields {
			lines = append(lines, fmt.Sprintf("  %s: %s", field, strings.Join(ve.Fields[field], " ")))
		}
		return fmt.Errorf("invalid user:\n%s", strings.Join(lines, "\n"))
	}
	switch {
	case errors.Is(err, service.ErrNameInUse):
		return errors.New("a user with that username already exists")
	case errors.Is(err, service.ErrEmailInUse):
		return errors.New("a user with that email already exists")
	}
	return fmt.Errorf("failed to create user: %w", err)
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(createUserCmd)

	createUserCmd.Flags().StringP("username", "u", "", "Username for the new account")
	createUserCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	createUserCmd.Flags().String("first-name", "", "First name")
	createUserCmd.Flags().String("last-name", "", "Last name")
	createUserCmd.Flags().StringP("password", "p", "", "Password for the new account")
	createUserCmd.MarkFlagRequired("username")
	createUserCmd.MarkFlagRequired("email")
	createUserCmd.MarkFlagRequired("first-name")
	createUserCmd.MarkFlagRequired("last-name")
	createUserCmd.MarkFlagRequired("password")
}
