package forms

import (
	"context"
	"errors"
	"fmt"

	"banking-dashboard/internal/domain"

	"github.com/charmbracelet/huh"
)

// HuhPrompter renders dialogs as interactive terminal forms.
type HuhPrompter struct {
	accessible bool
}

// NewHuhPrompter returns a prompter. accessible switches huh to plain
// line-by-line prompts for screen readers and dumb terminals.
func NewHuhPrompter(accessible bool) *HuhPrompter {
	return &HuhPrompter{accessible: accessible}
}

func (p *HuhPrompter) run(ctx context.Context, groups ...*huh.Group) error {
	form := huh.NewForm(groups...).WithAccessible(p.accessible)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}

func (p *HuhPrompter) Login(ctx context.Context, c Credentials) (Credentials, error) {
	err := p.run(ctx, huh.NewGroup(
		huh.NewNote().Title("Sign in").Description("Banking dashboard"),
		huh.NewInput().Title("Username").Value(&c.Username),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&c.Password),
	))
	return c, err
}

func (p *HuhPrompter) Signup(ctx context.Context, r Registration) (Registration, error) {
	err := p.run(ctx, huh.NewGroup(
		huh.NewNote().Title("Create an account"),
		huh.NewInput().Title("Username").Value(&r.Username),
		huh.NewInput().Title("Password").
			Description("At least 8 characters with upper case, lower case and a number").
			EchoMode(huh.EchoModePassword).Value(&r.Password),
		huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&r.ConfirmPassword),
		huh.NewConfirm().Title("I accept the terms and conditions").Value(&r.TermsAccepted),
	))
	return r, err
}

func (p *HuhPrompter) Menu(ctx context.Context, title string, items []MenuItem) (string, error) {
	opts := make([]huh.Option[string], 0, len(items))
	for _, it := range items {
		opts = append(opts, huh.NewOption(it.Label, it.Key))
	}

	var choice string
	err := p.run(ctx, huh.NewGroup(
		huh.NewSelect[string]().Title(title).Options(opts...).Value(&choice),
	))
	return choice, err
}

func (p *HuhPrompter) Text(ctx context.Context, title, initial string) (string, error) {
	value := initial
	err := p.run(ctx, huh.NewGroup(huh.NewInput().Title(title).Value(&value)))
	return value, err
}

func (p *HuhPrompter) Transaction(ctx context.Context, kind TransactionKind, accounts []domain.Account) (TransactionInput, error) {
	in := TransactionInput{Kind: kind}
	if len(accounts) > 0 {
		in.AccountNumber = accounts[0].AccountNumber
	}

	opts := make([]huh.Option[string], 0, len(accounts))
	for _, a := range accounts {
		label := fmt.Sprintf("%s  %s  %s", a.AccountNumber, a.Type, domain.FormatAmount(a.Balance, a.Currency))
		opts = append(opts, huh.NewOption(label, a.AccountNumber))
	}

	err := p.run(ctx, huh.NewGroup(
		huh.NewSelect[string]().Title(kind.Label()+" - account").Options(opts...).Value(&in.AccountNumber),
		huh.NewInput().Title("Amount").Placeholder("0.00").Value(&in.Amount),
		huh.NewInput().Title("Description").Value(&in.Description),
	))
	return in, err
}

func (p *HuhPrompter) Account(ctx context.Context, title string, d AccountDraft, owners []Owner) (AccountDraft, error) {
	types := make([]huh.Option[domain.AccountType], 0, len(domain.AccountTypes))
	for _, t := range domain.AccountTypes {
		types = append(types, huh.NewOption(string(t), t))
	}
	users := make([]huh.Option[string], 0, len(owners)+1)
	users = append(users, huh.NewOption("(none)", ""))
	for _, o := range owners {
		users = append(users, huh.NewOption(o.Name, fmt.Sprint(o.ID)))
	}

	err := p.run(ctx, huh.NewGroup(
		huh.NewNote().Title(title),
		huh.NewInput().Title("Account number").Value(&d.AccountNumber),
		huh.NewSelect[domain.AccountType]().Title("Type").Options(types...).Value(&d.Type),
		huh.NewInput().Title("Balance").Value(&d.Balance),
		huh.NewInput().Title("Currency").Value(&d.Currency),
		huh.NewSelect[domain.AccountStatus]().Title("Status").Options(
			huh.NewOption("Active", domain.AccountActive),
			huh.NewOption("Inactive", domain.AccountInactive),
		).Value(&d.Status),
		huh.NewSelect[string]().Title("Owner").Options(users...).Value(&d.UserID),
	))
	return d, err
}
