package main

import (
	"errors"
	"fmt"
	"strings"

	"library-persistence/library"

	"github.com/spf13/cobra"
)

var (
	accountUsername   string
	accountFirstName  string
	accountLastName   string
	accountEmail      string
	accountAddress    string
	accountPhone      string
	accountMembership int64
)

var userCmd = &cobra.Command{Use: "user", Short: "Manage library members"}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a member",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptNewPassword()
		if err != nil {
			return err
		}
		u := library.User{
			Person: library.Person{
				Username:  accountUsername,
				FirstName: accountFirstName,
				LastName:  accountLastName,
				Email:     accountEmail,
				IsActive:  true,
			},
			Address:          accountAddress,
			Phone:            accountPhone,
			MembershipTypeID: accountMembership,
		}
		if err := mgr.RegisterUser(ctxOf(cmd), &u, password); err != nil {
			if errors.Is(err, library.ErrUniqueViolation) {
				return fmt.Errorf("username %q is taken", accountUsername)
			}
			return err
		}
		fmt.Printf("Registered user '%s' with ID %d\n", u.Username, u.ID.Int64())
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List members",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := mgr.Store().Users.GetAll(ctxOf(cmd))
		if err != nil {
			return err
		}
		if ok, err := printJSON(users); ok {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No users registered.")
			return nil
		}
		fmt.Printf("%-5s %-20s %-25s %-10s %-6s\n", "ID", "Username", "Name", "Balance", "Active")
		fmt.Println(strings.Repeat("-", 70))
		for _, u := range users {
			fmt.Printf("%-5d %-20s %-25s %-10.2f %-6t\n", u.ID.Int64(), truncateString(u.Username, 20),
				truncateString(u.FullName(), 25), u.Balance, u.IsActive)
		}
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a member with open loans and fines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user id")
		if err != nil {
			return err
		}
		ctx := ctxOf(cmd)
		store := mgr.Store()
		u, err := store.Users.GetByID(ctx, id)
		if errors.Is(err, library.ErrNotFound) {
			return fmt.Errorf("user %d not found", id)
		}
		if err != nil {
			return err
		}
		txs, err := store.Transactions.GetByUserID(ctx, id)
		if err != nil {
			return err
		}
		owed, err := mgr.OutstandingFines(ctx, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			_, err := printJSON(map[string]any{"user": u, "transactions": txs, "outstanding_fines": owed})
			return err
		}

		fmt.Printf("User #%d: %s (%s)\n", u.ID.Int64(), u.FullName(), u.Username)
		fmt.Printf("Email: %s  Phone: %s\n", u.Email, u.Phone)
		fmt.Printf("Balance: %.2f  Outstanding fines: %.2f  Active: %t\n", u.Balance, owed, u.IsActive)
		fmt.Println()
		fmt.Printf("%-6s %-8s %-12s %-12s %-10s\n", "Loan", "Resource", "Issued", "Due", "Status")
		for _, tx := range txs {
			fmt.Printf("%-6d %-8d %-12s %-12s %-10s\n", tx.ID.Int64(), tx.ResourceID, tx.IssueDate, tx.DueDate, tx.Status)
		}
		return nil
	},
}

var userPasswordCmd = &cobra.Command{
	Use:   "passwd <user-id>",
	Short: "Reset a member's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user id")
		if err != nil {
			return err
		}
		password, err := promptNewPassword()
		if err != nil {
			return err
		}
		if err := mgr.ResetUserPassword(ctxOf(cmd), id, password); err != nil {
			return err
		}
		fmt.Printf("Password updated for user %d\n", id)
		return nil
	},
}

var adminCmd = &cobra.Command{Use: "admin", Short: "Manage administrators"}

var adminAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register an administrator",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptNewPassword()
		if err != nil {
			return err
		}
		a := library.Administrator{
			Person: library.Person{
				Username:  accountUsername,
				FirstName: accountFirstName,
				LastName:  accountLastName,
				Email:     accountEmail,
				IsActive:  true,
			},
		}
		if err := mgr.RegisterAdministrator(ctxOf(cmd), &a, password); err != nil {
			if errors.Is(err, library.ErrUniqueViolation) {
				return fmt.Errorf("username %q is taken", accountUsername)
			}
			return err
		}
		fmt.Printf("Registered administrator '%s' with ID %d\n", a.Username, a.ID.Int64())
		return nil
	},
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List administrators",
	RunE: func(cmd *cobra.Command, args []string) error {
		admins, err := mgr.Store().Administrators.GetAll(ctxOf(cmd))
		if err != nil {
			return err
		}
		if ok, err := printJSON(admins); ok {
			return err
		}
		for _, a := range admins {
			fmt.Printf("%-5d %-20s %s\n", a.ID.Int64(), a.Username, a.FullName())
		}
		return nil
	},
}

func promptNewPassword() (string, error) {
	password, err := readPassword("Password: ")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", library.ErrEmptyPassword
	}
	return password, nil
}

func init() {
	for _, c := range []*cobra.Command{userAddCmd, adminAddCmd} {
		c.Flags().StringVarP(&accountUsername, "username", "u", "", "Login name")
		c.Flags().StringVar(&accountFirstName, "first-name", "", "First name")
		c.Flags().StringVar(&accountLastName, "last-name", "", "Last name")
		c.Flags().StringVar(&accountEmail, "email", "", "Email address")
		_ = c.MarkFlagRequired("username")
	}
	userAddCmd.Flags().StringVar(&accountAddress, "address", "", "Postal address")
	userAddCmd.Flags().StringVar(&accountPhone, "phone", "", "Phone number")
	userAddCmd.Flags().Int64Var(&accountMembership, "membership", 0, "Membership type ID")
	_ = userAddCmd.MarkFlagRequired("membership")

	userCmd.AddCommand(userAddCmd, userListCmd, userShowCmd, userPasswordCmd)
	adminCmd.AddCommand(adminAddCmd, adminListCmd)
	rootCmd.AddCommand(userCmd, adminCmd)
}
