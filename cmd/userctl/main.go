// userctl is the operational companion of the API server: administrator
// provisioning, account activation toggles and a user listing, all against
// the same store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joblink-iscim/backend/internal/config"
	"github.com/joblink-iscim/backend/internal/events"
	"github.com/joblink-iscim/backend/internal/repo"
	"github.com/joblink-iscim/backend/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	svc := &service.AdminService{
		Repo:     repo.GormRepo{DB: db},
		Producer: events.NewProducer(cfg.KAFKA_ADDRESS),
	}
	defer svc.Producer.Close()

	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "create-admin":
		cmdErr = createAdmin(ctx, svc, os.Args[2:])
	case "deactivate":
		cmdErr = setActive(ctx, svc, os.Args[2:], false)
	case "activate":
		cmdErr = setActive(ctx, svc, os.Args[2:], true)
	case "list":
		cmdErr = list(ctx, svc, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "error:", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: userctl <command> [flags]

commands:
  create-admin -email <email> -name <name> -password <password>
  deactivate   -email <email>
  activate     -email <email>
  list         [-role user|admin] [-status active|inactive]`)
}

func createAdmin(ctx context.Context, svc *service.AdminService, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", "", "administrator email")
	name := fs.String("name", "", "administrator display name")
	password := fs.String("password", "", "administrator password")
	fs.Parse(args)

	user, err := svc.ProvisionAdmin(ctx, *name, *email, *password)
	if err != nil {
		return err
	}

	fmt.Println("administrator account created")
	fmt.Printf("ID: %d\nName: %s\nEmail: %s\nRole: %s\n", user.ID, user.Name, user.Email, user.Role)
	return nil
}

func setActive(ctx context.Context, svc *service.AdminService, args []string, active bool) error {
	verb := "deactivate"
	if active {
		verb = "activate"
	}
	fs := flag.NewFlagSet(verb, flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args)

	user, err := svc.SetActiveByEmail(ctx, *email, active)
	if err != nil {
		return err
	}

	status := "inactive"
	if user.IsActive {
		status = "active"
	}
	fmt.Printf("%s (%s) is now %s\n", user.Name, user.Email, status)
	return nil
}

func list(ctx context.Context, svc *service.AdminService, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	role := fs.String("role", "", "filter by role (user|admin)")
	status := fs.String("status", "", "filter by status (active|inactive)")
	fs.Parse(args)

	var active *bool
	switch *status {
	case "active":
		v := true
		active = &v
	case "inactive":
		v := false
		active = &v
	case "":
	default:
		return fmt.Errorf("invalid -status %q", *status)
	}

	users, err := svc.ListUsers(ctx, *role, active)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS\tLAST LOGIN")
	for _, u := range users {
		st := "inactive"
		if u.IsActive {
			st = "active"
		}
		last := "-"
		if u.LastLoginAt != nil {
			last = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, st, last)
	}
	w.Flush()
	fmt.Printf("%d user(s)\n", len(users))
	return nil
}
