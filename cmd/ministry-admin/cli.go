package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/kidsministry/backend/internal/middleware"
	"github.com/kidsministry/backend/internal/models"
	"github.com/kidsministry/backend/internal/services"
)

var errHelp = errors.New("help provided")

type attendanceAwarder interface {
	AwardAttendance(ctx context.Context, date time.Time, amount int64) (*services.AttendanceAwardResult, error)
}

type commandLine struct {
	out       io.Writer
	loc       *time.Location
	jwtSecret string
	// attendance is resolved lazily so issue-token runs without a database.
	attendance func() (attendanceAwarder, error)
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  award-attendance [-date YYYY-MM-DD] [-amount N] - pay talents for recorded attendance")
	fmt.Fprintln(cli.out, "  issue-token -kind admin|teacher|student -id ID [-ttl 24h] - mint an API token")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "award-attendance":
		cmd := flag.NewFlagSet("award-attendance", flag.ContinueOnError)
		cmd.SetOutput(cli.out)
		date := cmd.String("date", time.Now().In(cli.loc).Format("2006-01-02"), "Attendance date")
		amount := cmd.Int64("amount", 0, "Talents per present student (0 uses the configured amount)")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.awardAttendance(ctx, *date, *amount)

	case "issue-token":
		cmd := flag.NewFlagSet("issue-token", flag.ContinueOnError)
		cmd.SetOutput(cli.out)
		kind := cmd.String("kind", "", "Token role: admin, teacher or student")
		id := cmd.Int64("id", 0, "Subject ID (student or teacher row ID)")
		ttl := cmd.Duration("ttl", 24*time.Hour, "Token lifetime")
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if !models.Role(*kind).Valid() || *id <= 0 && models.Role(*kind) != models.RoleAdmin {
			cmd.Usage()
			return errHelp
		}
		return cli.issueToken(models.Role(*kind), *id, *ttl)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) awardAttendance(ctx context.Context, date string, amount int64) error {
	day, err := time.ParseInLocation("2006-01-02", date, cli.loc)
	if err != nil {
		return fmt.Errorf("invalid -date %q: %w", date, err)
	}

	svc, err := cli.attendance()
	if err != nil {
		return err
	}

	res, err := svc.AwardAttendance(ctx, day, amount)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%s: awarded %d talent(s) to %d student(s), skipped %d\n",
		res.Date, res.Amount, len(res.Awarded), res.Skipped)
	return nil
}

func (cli *commandLine) issueToken(kind models.Role, id int64, ttl time.Duration) error {
	if cli.jwtSecret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	token, err := middleware.IssueToken(cli.jwtSecret, kind, id, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
