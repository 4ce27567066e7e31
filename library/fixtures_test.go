package library

import (
	"context"
	"testing"
)

// fixture holds the reference rows most tests need.
type fixture struct {
	membership   MembershipType
	category     Category
	resourceType ResourceType
	resource     Resource
	user         User
	admin        Administrator
}

func seed(t *testing.T, db *Database) fixture {
	t.Helper()
	ctx := context.Background()
	s := db.Store()

	var f fixture
	f.membership = NewMembershipType("Student", 365, 10.0)
	mustSave(t, s.MembershipTypes.Save(ctx, &f.membership))

	f.category = Category{Name: "Computing", Description: "Programming and systems"}
	mustSave(t, s.Categories.Save(ctx, &f.category))

	f.resourceType = NewResourceType("Book")
	mustSave(t, s.ResourceTypes.Save(ctx, &f.resourceType))

	f.resource = Resource{
		Title:           "The Go Programming Language",
		Author:          "Donovan & Kernighan",
		Publisher:       "Addison-Wesley",
		PublicationYear: 2015,
		ISBN:            "978-0134190440",
		CategoryID:      f.category.ID.Int64(),
		ResourceTypeID:  f.resourceType.ID.Int64(),
		TotalCopies:     2,
		AvailableCopies: 2,
		AddedDate:       "2026-01-10",
		IsActive:        true,
	}
	mustSave(t, s.Resources.Save(ctx, &f.resource))

	f.user = User{
		Person: Person{
			Username:  "waqar_student",
			Password:  "securepass",
			FirstName: "Waqar",
			LastName:  "Wasif",
			Email:     "waqar@test.com",
			IsActive:  true,
		},
		Address:          "Campus Res",
		Phone:            "03000000000",
		MembershipTypeID: f.membership.ID.Int64(),
		RegistrationDate: "2026-02-22",
	}
	mustSave(t, s.Users.Save(ctx, &f.user))

	f.admin = Administrator{
		Person: Person{
			Username:  "head_librarian",
			Password:  "adminpass",
			FirstName: "Ayesha",
			LastName:  "Khan",
			Email:     "admin@test.com",
			IsActive:  true,
		},
		CreatedDate: "2026-01-01",
	}
	mustSave(t, s.Administrators.Save(ctx, &f.admin))
	return f
}

// seedFixedIDs inserts user 500, resource 1001 and transaction 101 so rows
// that reference those ids satisfy their foreign keys.
func seedFixedIDs(t *testing.T, db *Database) {
	t.Helper()
	stmts := []string{
		`INSERT INTO membership_types (membership_type_id, membership_name, duration_days, price) VALUES (1, 'Standard', 365, 0)`,
		`INSERT INTO categories (category_id, name) VALUES (1, 'General')`,
		`INSERT INTO resource_types (resource_type_id, type_name) VALUES (1, 'Book')`,
		`INSERT INTO users (user_id, username, password, first_name, last_name, email, address, phone, membership_type_id, registration_date)
            VALUES (500, 'fixed_user', 'x', 'Fixed', 'User', 'fixed@test.com', 'Somewhere', '000', 1, '2026-01-01')`,
		`INSERT INTO resources (resource_id, title, author, publisher, publication_year, isbn, category_id, resource_type_id, added_date)
            VALUES (1001, 'Fixed Title', 'Author', 'Publisher', 2020, 'isbn', 1, 1, '2026-01-01')`,
		`INSERT INTO transactions (transaction_id, user_id, resource_id, issue_date, due_date)
            VALUES (101, 500, 1001, '2026-02-01', '2026-02-15')`,
	}
	for _, s := range stmts {
		if _, err := db.db.Exec(s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func mustSave(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
}
