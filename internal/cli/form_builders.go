package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/cotton/internal/calc"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/charmbracelet/huh"
)

// entryForm returns a themed form for the three entry fields. Values already
// set are shown prefilled.
func entryForm(v *entryValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Worker name").
				Placeholder("Asha").
				Value(&v.Name).
				Validate(validateName),
			huh.NewInput().
				Title("KG collected").
				Description("sums are fine: 12+8.5").
				Placeholder("20.5").
				Value(&v.Kg).
				Validate(validateKgExpr),
			huh.NewInput().
				Title("Rate per KG").
				Placeholder("10").
				Value(&v.Rate).
				Validate(validateRate),
		),
	).WithTheme(cottonHuhTheme()).WithShowHelp(false)
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(cottonHuhTheme()).WithShowHelp(false)
}

func validateName(s string) error {
	if _, err := domain.ValidateName(s); err != nil {
		return fmt.Errorf("at least %d characters", domain.MinNameLen)
	}
	return nil
}

func validateKgExpr(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("enter the kg collected")
	}
	if _, err := calc.EvalKg(s); err != nil {
		return fmt.Errorf("not a valid amount")
	}
	return nil
}

func validateRate(s string) error {
	if _, err := parseRate(s); err != nil {
		return fmt.Errorf("enter a rate above 0 and at most %g", domain.MaxRate)
	}
	return nil
}

// parseRate reads a rate typed by the user. Range checks are left to the
// domain so the messages stay in one place.
func parseRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &domain.ValidationError{Field: "rate", Msg: "rate is required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &domain.ValidationError{Field: "rate", Msg: quote(s) + " is not a number"}
	}
	if err := domain.ValidateRate(v); err != nil {
		return 0, err
	}
	return v, nil
}

func quote(s string) string {
	return strconv.Quote(s)
}
