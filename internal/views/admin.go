package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"banking-dashboard/internal/domain"
	"banking-dashboard/internal/forms"
	"banking-dashboard/internal/guard"

	"github.com/charmbracelet/log"
)

var adminMenu = []forms.MenuItem{
	{Key: "add", Label: "Add account"},
	{Key: "edit", Label: "Edit account"},
	{Key: "activate", Label: "Activate account"},
	{Key: "deactivate", Label: "Deactivate account"},
	{Key: "search", Label: "Search accounts"},
	{Key: "filter", Label: "Filter by status"},
	{Key: "signout", Label: "Sign out"},
	{Key: "quit", Label: "Quit"},
}

var filterMenu = []forms.MenuItem{
	{Key: string(FilterAll), Label: "All"},
	{Key: string(FilterActive), Label: "Active"},
	{Key: string(FilterInactive), Label: "Inactive"},
}

// Admin is the account management screen.
type Admin struct {
	session Session
	auth    Auth
	seed    func() *AccountBook
	book    *AccountBook
	prompt  forms.Prompter
	notify  *Notifier
	out     io.Writer
	styles  styles
	log     *log.Logger

	Search string
	Status StatusFilter
}

// NewAdmin builds the screen. seed supplies a fresh account book each time
// the screen is entered.
func NewAdmin(d Deps, seed func() *AccountBook) *Admin {
	out := d.Out
	if out == nil {
		out = io.Discard
	}
	return &Admin{
		session: d.Session,
		auth:    d.Auth,
		seed:    seed,
		prompt:  d.Prompter,
		notify:  d.Notifier,
		out:     out,
		styles:  newStyles(out),
		log:     d.logger("admin"),
		Status:  FilterAll,
	}
}

// Book is the account book of the current or most recent visit.
func (v *Admin) Book() *AccountBook {
	return v.book
}

func (v *Admin) Run(ctx context.Context) (string, error) {
	v.book = v.seed()
	v.Search, v.Status = "", FilterAll

	for {
		if !v.session.IsAuthenticated() {
			return guard.RouteLogin, nil
		}
		v.render()

		choice, err := v.prompt.Menu(ctx, "Account management", adminMenu)
		if cancelled(err) {
			return "", ErrQuit
		}
		if err != nil {
			return "", err
		}

		switch choice {
		case "add":
			err = v.save(ctx, 0)
		case "edit":
			err = v.edit(ctx)
		case "activate":
			err = v.toggle(ctx, domain.AccountInactive)
		case "deactivate":
			err = v.toggle(ctx, domain.AccountActive)
		case "search":
			var term string
			if term, err = v.prompt.Text(ctx, "Search accounts", v.Search); err == nil {
				v.Search = term
			}
		case "filter":
			var f string
			if f, err = v.prompt.Menu(ctx, "Show accounts", filterMenu); err == nil {
				v.Status = StatusFilter(f)
			}
		case "signout":
			if err := v.auth.SignOut(); err != nil {
				v.log.Error("sign out failed", "err", err)
			}
			return guard.RouteLogin, nil
		case "quit":
			return "", ErrQuit
		}
		if err != nil && !cancelled(err) {
			return "", err
		}
	}
}

// pick asks for one of the visible accounts with the given status.
func (v *Admin) pick(ctx context.Context, title string, status StatusFilter) (int64, bool, error) {
	visible := v.book.Filter(v.Search, v.Status)
	items := make([]forms.MenuItem, 0, len(visible))
	for _, a := range visible {
		if status.matches(a.Status) {
			items = append(items, forms.MenuItem{
				Key:   strconv.FormatInt(a.ID, 10),
				Label: fmt.Sprintf("%s  %s  %s", a.AccountNumber, a.OwnerName, a.Type),
			})
		}
	}
	if len(items) == 0 {
		v.notify.Info("No matching accounts")
		return 0, false, nil
	}

	key, err := v.prompt.Menu(ctx, title, items)
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid account selection %q: %w", key, err)
	}
	return id, true, nil
}

func (v *Admin) toggle(ctx context.Context, from domain.AccountStatus) error {
	filter, verb := FilterInactive, "activated"
	if from == domain.AccountActive {
		filter, verb = FilterActive, "deactivated"
	}

	id, ok, err := v.pick(ctx, "Select account", filter)
	if err != nil || !ok {
		return err
	}
	if from == domain.AccountActive {
		v.book.Deactivate(id)
	} else {
		v.book.Activate(id)
	}
	a, _ := v.book.Account(id)
	v.log.Info("account status changed", "account", a.AccountNumber, "status", a.Status)
	v.notify.Success(fmt.Sprintf("Account %s %s", a.AccountNumber, verb))
	return nil
}

func (v *Admin) edit(ctx context.Context) error {
	id, ok, err := v.pick(ctx, "Select account to edit", FilterAll)
	if err != nil || !ok {
		return err
	}
	return v.save(ctx, id)
}

func (v *Admin) save(ctx context.Context, id int64) error {
	title, draft := "Add new account", forms.NewAccountDraft()
	if id != 0 {
		title = "Edit account"
		draft, _ = v.book.Draft(id)
	}

	draft, err := v.prompt.Account(ctx, title, draft, v.book.Owners())
	if err != nil {
		return err
	}

	a, ok := v.book.Save(id, draft)
	if !ok {
		v.notify.Error("Account not found")
		return nil
	}
	if id == 0 {
		v.notify.Success(fmt.Sprintf("Account %s created for %s", a.AccountNumber, a.OwnerName))
	} else {
		v.notify.Success(fmt.Sprintf("Account %s updated", a.AccountNumber))
	}
	return nil
}

func (v *Admin) render() {
	s := v.styles
	st := v.book.Stats()

	fmt.Fprintln(v.out, s.title.Render("Account Management"))
	fmt.Fprintln(v.out, s.subtle.Render("Add, edit, activate or deactivate accounts"))
	fmt.Fprintln(v.out, s.stats(
		"Total accounts", strconv.Itoa(st.Total),
		"Active", strconv.Itoa(st.Active),
		"Inactive", strconv.Itoa(st.Inactive),
	))

	accounts := v.book.Filter(v.Search, v.Status)
	if len(accounts) == 0 {
		fmt.Fprintln(v.out, s.subtle.Render("No accounts match the current filter"))
		return
	}
	fmt.Fprintln(v.out, s.grid(
		[]string{"ID", "Account", "Type", "Balance", "Owner", "Status", "Created"},
		accountRows(accounts, true), 5,
	))
}
