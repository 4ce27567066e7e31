package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var fundsNotes string

var issueCmd = &cobra.Command{
	Use:   "issue <user-id> <resource-id>",
	Short: "Lend a resource to a member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID(args[0], "user id")
		if err != nil {
			return err
		}
		resourceID, err := parseID(args[1], "resource id")
		if err != nil {
			return err
		}
		tx, err := mgr.IssueResource(ctxOf(cmd), userID, resourceID)
		if err != nil {
			return err
		}
		if ok, err := printJSON(tx); ok {
			return err
		}
		fmt.Printf("Issued resource %d to user %d (loan %d), due %s\n", resourceID, userID, tx.ID.Int64(), tx.DueDate)
		return nil
	},
}

var renewCmd = &cobra.Command{
	Use:   "renew <loan-id>",
	Short: "Extend a loan by one loan period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "loan id")
		if err != nil {
			return err
		}
		tx, err := mgr.RenewTransaction(ctxOf(cmd), id)
		if err != nil {
			return err
		}
		if ok, err := printJSON(tx); ok {
			return err
		}
		fmt.Printf("Loan %d renewed (%d), now due %s\n", id, tx.RenewalCount, tx.DueDate)
		return nil
	},
}

var returnCmd = &cobra.Command{
	Use:   "return <loan-id>",
	Short: "Return a borrowed resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "loan id")
		if err != nil {
			return err
		}
		receipt, err := mgr.ReturnResource(ctxOf(cmd), id)
		if err != nil {
			return err
		}
		if ok, err := printJSON(receipt); ok {
			return err
		}
		fmt.Printf("Loan %d returned on %s\n", id, receipt.Transaction.ReturnDate)
		if receipt.Fine != nil {
			fmt.Printf("Fine %d: %.2f for %d days overdue\n", receipt.Fine.ID.Int64(), receipt.Fine.Amount, receipt.Fine.DaysOverdue)
		}
		return nil
	},
}

var reserveCmd = &cobra.Command{
	Use:   "reserve <user-id> <resource-id>",
	Short: "Place a hold on a resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID(args[0], "user id")
		if err != nil {
			return err
		}
		resourceID, err := parseID(args[1], "resource id")
		if err != nil {
			return err
		}
		res, err := mgr.PlaceReservation(ctxOf(cmd), userID, resourceID)
		if err != nil {
			return err
		}
		if ok, err := printJSON(res); ok {
			return err
		}
		fmt.Printf("Reservation %d placed, expires %s\n", res.ID.Int64(), res.ExpiryDate)
		return nil
	},
}

var cancelReservationCmd = &cobra.Command{
	Use:   "cancel-reservation <reservation-id>",
	Short: "Cancel a pending reservation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "reservation id")
		if err != nil {
			return err
		}
		if err := mgr.CancelReservation(ctxOf(cmd), id); err != nil {
			return err
		}
		fmt.Printf("Reservation %d cancelled\n", id)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <user-id>",
	Short: "Show a member's returned loans",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user id")
		if err != nil {
			return err
		}
		entries, err := mgr.Store().BorrowingHistories.GetByUserID(ctxOf(cmd), id)
		if err != nil {
			return err
		}
		if ok, err := printJSON(entries); ok {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No borrowing history.")
			return nil
		}
		fmt.Printf("%-8s %-12s %-12s %-12s %-8s\n", "Resource", "Issued", "Due", "Returned", "Fine")
		fmt.Println(strings.Repeat("-", 56))
		for _, h := range entries {
			fmt.Printf("%-8d %-12s %-12s %-12s %-8.2f\n", h.ResourceID, h.IssueDate, h.DueDate, h.ReturnDate, h.FineAmount)
		}
		return nil
	},
}

var fineCmd = &cobra.Command{Use: "fine", Short: "Fines for late returns"}

var fineListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List a member's fines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user id")
		if err != nil {
			return err
		}
		fines, err := mgr.Store().Fines.GetByUserID(ctxOf(cmd), id)
		if err != nil {
			return err
		}
		if ok, err := printJSON(fines); ok {
			return err
		}
		fmt.Printf("%-5s %-6s %-6s %-8s %-12s %-5s\n", "ID", "Loan", "Days", "Amount", "Date", "Paid")
		for _, f := range fines {
			fmt.Printf("%-5d %-6d %-6d %-8.2f %-12s %-5t\n", f.ID.Int64(), f.TransactionID, f.DaysOverdue, f.Amount, f.FineDate, f.IsPaid)
		}
		return nil
	},
}

var finePayCmd = &cobra.Command{
	Use:   "pay <fine-id>",
	Short: "Pay a fine from the member's balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "fine id")
		if err != nil {
			return err
		}
		f, err := mgr.PayFine(ctxOf(cmd), id)
		if err != nil {
			return err
		}
		fmt.Printf("Fine %d paid (%.2f)\n", id, f.Amount)
		return nil
	},
}

var fundsCmd = &cobra.Command{Use: "funds", Short: "Balance top-up requests"}

var fundsRequestCmd = &cobra.Command{
	Use:   "request <user-id> <amount>",
	Short: "Ask for a balance top-up",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID(args[0], "user id")
		if err != nil {
			return err
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		fr, err := mgr.RequestFunds(ctxOf(cmd), userID, amount)
		if err != nil {
			return err
		}
		fmt.Printf("Fund request %d for %.2f is %s\n", fr.ID.Int64(), fr.RequestedAmount, fr.Status)
		return nil
	},
}

func decideCmd(use, short string, approve bool) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " <request-id> <admin-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseID(args[0], "request id")
			if err != nil {
				return err
			}
			adminID, err := parseID(args[1], "admin id")
			if err != nil {
				return err
			}
			decide := mgr.RejectFundRequest
			if approve {
				decide = mgr.ApproveFundRequest
			}
			fr, err := decide(ctxOf(cmd), requestID, adminID, fundsNotes)
			if err != nil {
				return err
			}
			fmt.Printf("Fund request %d %s by admin %d\n", requestID, strings.ToLower(fr.Status), adminID)
			return nil
		},
	}
	c.Flags().StringVar(&fundsNotes, "notes", "", "Administrator notes")
	return c
}

var fundsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fund requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		requests, err := mgr.Store().FundRequests.GetAll(ctxOf(cmd))
		if err != nil {
			return err
		}
		if ok, err := printJSON(requests); ok {
			return err
		}
		fmt.Printf("%-5s %-6s %-10s %-12s %-10s %-6s\n", "ID", "User", "Amount", "Requested", "Status", "Admin")
		fmt.Println(strings.Repeat("-", 55))
		for _, fr := range requests {
			admin := "-"
			if fr.AdminID != 0 {
				admin = fmt.Sprint(fr.AdminID)
			}
			fmt.Printf("%-5d %-6d %-10.2f %-12s %-10s %-6s\n", fr.ID.Int64(), fr.UserID, fr.RequestedAmount, fr.RequestDate, fr.Status, admin)
		}
		return nil
	},
}

func init() {
	fineCmd.AddCommand(fineListCmd, finePayCmd)
	fundsCmd.AddCommand(fundsRequestCmd,
		decideCmd("approve", "Approve a request and credit the balance", true),
		decideCmd("reject", "Reject a request", false),
		fundsListCmd)
	rootCmd.AddCommand(issueCmd, renewCmd, returnCmd, reserveCmd, cancelReservationCmd, historyCmd, fineCmd, fundsCmd)
}
