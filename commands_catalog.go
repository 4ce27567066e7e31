package main

import (
	"fmt"
	"strings"
	"time"

	"library-persistence/library"

	"github.com/spf13/cobra"
)

var (
	// membership add flags
	membershipName        string
	membershipDuration    int
	membershipPrice       float64
	membershipLimit       int
	membershipBorrowDays  int
	membershipFinePerDay  float64
	membershipDescription string

	// category add flags
	categoryName        string
	categoryDescription string

	// resource-type add flags
	resourceTypeName        string
	resourceTypeMaxRenewals int

	// resource add flags
	resourceTitle     string
	resourceAuthor    string
	resourcePublisher string
	resourceYear      int
	resourceISBN      string
	resourceCategory  int64
	resourceType      int64
	resourceCopies    int
)

var membershipCmd = &cobra.Command{Use: "membership", Short: "Manage membership types"}

var membershipAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a membership type",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := library.NewMembershipType(membershipName, membershipDuration, membershipPrice)
		m.MaxBorrowingLimit = membershipLimit
		m.BorrowingDurationDays = membershipBorrowDays
		m.FinePerDay = membershipFinePerDay
		m.Description = membershipDescription
		if err := mgr.Store().MembershipTypes.Save(ctxOf(cmd), &m); err != nil {
			return err
		}
		fmt.Printf("Added membership type '%s' with ID %d\n", m.Name, m.ID.Int64())
		return nil
	},
}

var membershipListCmd = &cobra.Command{
	Use:   "list",
	Short: "List membership types",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := mgr.Store().MembershipTypes.GetAll(ctxOf(cmd))
		if err != nil {
			return err
		}
		if ok, err := printJSON(types); ok {
			return err
		}
		fmt.Printf("%-5s %-20s %-8s %-8s %-6s %-6s %-8s\n", "ID", "Name", "Days", "Price", "Limit", "Loan", "Fine/day")
		fmt.Println(strings.Repeat("-", 70))
		for _, m := range types {
			fmt.Printf("%-5d %-20s %-8d %-8.2f %-6d %-6d %-8.2f\n", m.ID.Int64(), truncateString(m.Name, 20),
				m.DurationDays, m.Price, m.MaxBorrowingLimit, m.BorrowingDurationDays, m.FinePerDay)
		}
		return nil
	},
}

var categoryCmd = &cobra.Command{Use: "category", Short: "Manage categories"}

var categoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := library.Category{Name: categoryName, Description: categoryDescription}
		if err := mgr.Store().Categories.Save(ctxOf(cmd), &c); err != nil {
			return err
		}
		fmt.Printf("Added category '%s' with ID %d\n", c.Name, c.ID.Int64())
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cats, err := mgr.Store().Categories.GetAll(ctxOf(cmd))
		if err != nil {
			return err
		}
		if ok, err := printJSON(cats); ok {
			return err
		}
		for _, c := range cats {
			fmt.Printf("%-5d %-25s %s\n", c.ID.Int64(), truncateString(c.Name, 25), c.Description)
		}
		return nil
	},
}

var resourceTypeCmd = &cobra.Command{Use: "resource-type", Short: "Manage resource types"}

var resourceTypeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a resource type",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := library.NewResourceType(resourceTypeName)
		rt.MaxRenewals = resourceTypeMaxRenewals
		if err := mgr.Store().ResourceTypes.Save(ctxOf(cmd), &rt); err != nil {
			return err
		}
		fmt.Printf("Added resource type '%s' with ID %d\n", rt.Name, rt.ID.Int64())
		return nil
	},
}

var resourceTypeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resource types",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := mgr.Store().ResourceTypes.GetAll(ctxOf(cmd))
		if err != nil {
			return err
		}
		if ok, err := printJSON(types); ok {
			return err
		}
		for _, rt := range types {
			fmt.Printf("%-5d %-20s renewals=%d\n", rt.ID.Int64(), rt.Name, rt.MaxRenewals)
		}
		return nil
	},
}

var resourceCmd = &cobra.Command{Use: "resource", Short: "Manage the catalogue"}

var resourceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a resource",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := library.Resource{
			Title:           resourceTitle,
			Author:          resourceAuthor,
			Publisher:       resourcePublisher,
			PublicationYear: resourceYear,
			ISBN:            resourceISBN,
			CategoryID:      resourceCategory,
			ResourceTypeID:  resourceType,
			TotalCopies:     resourceCopies,
			AvailableCopies: resourceCopies,
			AddedDate:       time.Now().Format(library.DateLayout),
			IsActive:        true,
		}
		if err := mgr.Store().Resources.Save(ctxOf(cmd), &r); err != nil {
			return err
		}
		fmt.Printf("Added resource '%s' with ID %d\n", r.Title, r.ID.Int64())
		return nil
	},
}

var resourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		resources, err := mgr.Store().Resources.GetAll(ctxOf(cmd))
		if err != nil {
			return err
		}
		if ok, err := printJSON(resources); ok {
			return err
		}
		if len(resources) == 0 {
			fmt.Println("No resources in library.")
			return nil
		}
		fmt.Printf("%-5s %-40s %-25s %-10s\n", "ID", "Title", "Author", "Available")
		fmt.Println(strings.Repeat("-", 85))
		for _, r := range resources {
			fmt.Printf("%-5d %-40s %-25s %d/%d\n", r.ID.Int64(), truncateString(r.Title, 40),
				truncateString(r.Author, 25), r.AvailableCopies, r.TotalCopies)
		}
		return nil
	},
}

func init() {
	membershipAddCmd.Flags().StringVar(&membershipName, "name", "", "Membership name")
	membershipAddCmd.Flags().IntVar(&membershipDuration, "duration", 365, "Membership length in days")
	membershipAddCmd.Flags().Float64Var(&membershipPrice, "price", 0, "Price")
	membershipAddCmd.Flags().IntVar(&membershipLimit, "limit", library.DefaultMaxBorrowingLimit, "Maximum open loans")
	membershipAddCmd.Flags().IntVar(&membershipBorrowDays, "loan-days", library.DefaultBorrowingDurationDays, "Loan period in days")
	membershipAddCmd.Flags().Float64Var(&membershipFinePerDay, "fine-per-day", library.DefaultFinePerDay, "Fine per overdue day")
	membershipAddCmd.Flags().StringVar(&membershipDescription, "description", "", "Description")
	_ = membershipAddCmd.MarkFlagRequired("name")
	membershipCmd.AddCommand(membershipAddCmd, membershipListCmd)

	categoryAddCmd.Flags().StringVar(&categoryName, "name", "", "Category name")
	categoryAddCmd.Flags().StringVar(&categoryDescription, "description", "", "Description")
	_ = categoryAddCmd.MarkFlagRequired("name")
	categoryCmd.AddCommand(categoryAddCmd, categoryListCmd)

	resourceTypeAddCmd.Flags().StringVar(&resourceTypeName, "name", "", "Type name, e.g. Book")
	resourceTypeAddCmd.Flags().IntVar(&resourceTypeMaxRenewals, "max-renewals", library.DefaultMaxRenewals, "Renewals allowed per loan")
	_ = resourceTypeAddCmd.MarkFlagRequired("name")
	resourceTypeCmd.AddCommand(resourceTypeAddCmd, resourceTypeListCmd)

	resourceAddCmd.Flags().StringVar(&resourceTitle, "title", "", "Title")
	resourceAddCmd.Flags().StringVar(&resourceAuthor, "author", "", "Author")
	resourceAddCmd.Flags().StringVar(&resourcePublisher, "publisher", "", "Publisher")
	resourceAddCmd.Flags().IntVar(&resourceYear, "year", 0, "Publication year")
	resourceAddCmd.Flags().StringVar(&resourceISBN, "isbn", "", "ISBN")
	resourceAddCmd.Flags().Int64Var(&resourceCategory, "category", 0, "Category ID")
	resourceAddCmd.Flags().Int64Var(&resourceType, "type", 0, "Resource type ID")
	resourceAddCmd.Flags().IntVar(&resourceCopies, "copies", 1, "Number of copies")
	for _, f := range []string{"title", "author", "category", "type"} {
		_ = resourceAddCmd.MarkFlagRequired(f)
	}
	resourceCmd.AddCommand(resourceAddCmd, resourceListCmd)

	rootCmd.AddCommand(membershipCmd, categoryCmd, resourceTypeCmd, resourceCmd)
}
