// Command uniblog is the terminal front end for the UNIBlog platform:
// session management plus the profile dashboard (posts, bookmarks,
// username). All state flows through the client core; the command layer
// only renders results and reacts to failure classes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/uniblog/client/internal/core/domain"
	"github.com/uniblog/client/internal/core/ports"
	"github.com/uniblog/client/internal/core/service"
	"github.com/uniblog/client/internal/infrastructure/bus"
	"github.com/uniblog/client/internal/infrastructure/gateway"
	"github.com/uniblog/client/internal/infrastructure/storage"
	"github.com/uniblog/client/internal/pkg/config"
	"github.com/uniblog/client/pkg/logger"
)

var (
	_ ports.SessionService  = (*service.SessionService)(nil)
	_ ports.ProfileService  = (*service.ProfileService)(nil)
	_ ports.SessionBus      = (*bus.Bus)(nil)
	_ ports.Gateway         = (*gateway.Client)(nil)
	_ ports.CredentialStore = (*storage.FileStore)(nil)
	_ ports.CredentialStore = (*storage.MemoryStore)(nil)
)

const usage = `usage: uniblog <command> [flags]

commands:
  signup        create an account (-email, -password)
  login         start a session (-email, -password)
  logout        end the session
  status        show session state and server reachability
  profile       show the profile dashboard
  rename        change the username (-username)
  delete-post   delete an authored post (-id)
  bookmark      bookmark a post (-post)
  unbookmark    remove a bookmark (-id)
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if len(args) < 1 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	store, err := storage.NewFileStore(cfg.CredentialsFile)
	if err != nil {
		log.Error().Err(err).Msg("credential store unavailable")
		return 1
	}

	gate, err := gateway.New(gateway.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout}, log)
	if err != nil {
		log.Error().Err(err).Msg("invalid API configuration")
		return 1
	}

	sessionBus := bus.New()
	sessions := service.NewSessionService(store, sessionBus, gate, log)
	profile := service.NewProfileService(store, gate, log)

	// The dashboard's cached snapshot must not outlive the session.
	unsubscribe := sessionBus.Subscribe(domain.SignalLogout, profile.Invalidate)
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout+5*time.Second)
	defer cancel()

	a := &app{sessions: sessions, profile: profile, gate: gate, log: log}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "signup":
		return a.signup(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout()
	case "status":
		return a.status(ctx)
	case "profile":
		return a.dashboard(ctx)
	case "rename":
		return a.rename(ctx, rest)
	case "delete-post":
		return a.deletePost(ctx, rest)
	case "bookmark":
		return a.bookmark(ctx, rest)
	case "unbookmark":
		return a.unbookmark(ctx, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
}

type app struct {
	sessions ports.SessionService
	profile  ports.ProfileService
	gate     ports.Gateway
	log      zerolog.Logger
}

func (a *app) signup(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	user, err := a.sessions.Register(ctx, *email, *password)
	if err != nil {
		return a.fail(err)
	}
	fmt.Printf("Account created for %s. Run 'uniblog login' to start a session.\n", user.Email)
	return 0
}

func (a *app) login(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if err := a.sessions.Login(ctx, *email, *password); err != nil {
		return a.fail(err)
	}
	fmt.Println("Login successful.")
	return 0
}

func (a *app) logout() int {
	if err := a.sessions.Logout(); err != nil {
		a.log.Error().Err(err).Msg("logout failed")
		return 1
	}
	fmt.Println("Logged out.")
	return 0
}

// status is the navigation-bar analog: it re-reads the credential store,
// reports presence and expiry, and probes the server's health endpoint
// anonymously.
func (a *app) status(ctx context.Context) int {
	sess := a.sessions.Current()
	if sess.Present {
		fmt.Println("Session: active")
		if exp, ok := a.sessions.Expiry(sess); ok {
			if time.Now().After(exp) {
				fmt.Printf("Token:   expired %s\n", exp.Format(time.RFC1123))
			} else {
				fmt.Printf("Token:   valid until %s\n", exp.Format(time.RFC1123))
			}
		}
	} else {
		fmt.Println("Session: none")
	}

	if _, err := a.gate.Do(ctx, http.MethodGet, "/health", nil, domain.Session{}); err != nil {
		fmt.Println("Server:  unreachable")
	} else {
		fmt.Println("Server:  ok")
	}
	return 0
}

func (a *app) dashboard(ctx context.Context) int {
	if code, ok := a.requireSession(); !ok {
		return code
	}

	user, err := a.profile.Load(ctx)
	if err != nil {
		return a.fail(err)
	}

	name := "Not set"
	if user.Username != nil {
		name = *user.Username
	}
	fmt.Printf("Username:  %s\nEmail:     %s\nActive:    %t\nVerified:  %t\n", name, user.Email, user.IsActive, user.IsVerified)

	fmt.Printf("\nPosts (%d):\n", len(user.Posts))
	for _, p := range user.Posts {
		fmt.Printf("  [%d] %s (%s)\n", p.ID, p.Title, p.CreatedAt.Format("2006-01-02"))
	}

	fmt.Printf("\nBookmarks (%d):\n", len(user.Bookmarks))
	for _, b := range user.Bookmarks {
		fmt.Printf("  [%d] %s\n", b.ID, b.Post.Title)
	}
	return 0
}

func (a *app) rename(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("rename", flag.ExitOnError)
	username := fs.String("username", "", "new username")
	_ = fs.Parse(args)

	if code, ok := a.loadThen(ctx); !ok {
		return code
	}
	if err := a.profile.RenameUsername(ctx, *username); err != nil {
		return a.fail(err)
	}
	fmt.Println("Username updated.")
	return 0
}

func (a *app) deletePost(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("delete-post", flag.ExitOnError)
	id := fs.Int("id", 0, "post id")
	_ = fs.Parse(args)

	if code, ok := a.loadThen(ctx); !ok {
		return code
	}
	if err := a.profile.DeletePost(ctx, *id); err != nil {
		return a.fail(err)
	}
	fmt.Println("Post deleted.")
	return 0
}

func (a *app) bookmark(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("bookmark", flag.ExitOnError)
	post := fs.Int("post", 0, "post id to bookmark")
	_ = fs.Parse(args)

	if code, ok := a.loadThen(ctx); !ok {
		return code
	}
	if err := a.profile.AddBookmark(ctx, *post); err != nil {
		return a.fail(err)
	}
	fmt.Println("Bookmark added.")
	return 0
}

func (a *app) unbookmark(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("unbookmark", flag.ExitOnError)
	id := fs.Int("id", 0, "bookmark id")
	_ = fs.Parse(args)

	if code, ok := a.loadThen(ctx); !ok {
		return code
	}
	if err := a.profile.RemoveBookmark(ctx, *id); err != nil {
		return a.fail(err)
	}
	fmt.Println("Bookmark removed.")
	return 0
}

// requireSession runs the navigation guard against a fresh store read
// before any protected fetch is attempted.
func (a *app) requireSession() (int, bool) {
	if service.Enforce(a.sessions.Current()) == service.RedirectToAuth {
		fmt.Println("Not logged in. Run 'uniblog login' first.")
		return 1, false
	}
	return 0, true
}

// loadThen establishes the snapshot a mutator needs. Mutations are
// sequential here, so a fresh load before each one keeps the
// single-writer discipline trivially satisfied.
func (a *app) loadThen(ctx context.Context) (int, bool) {
	if code, ok := a.requireSession(); !ok {
		return code, false
	}
	if _, err := a.profile.Load(ctx); err != nil {
		return a.fail(err), false
	}
	return 0, true
}

// fail maps the failure taxonomy onto the three user reactions: forced
// re-authentication, an inline message, or a retry suggestion.
func (a *app) fail(err error) int {
	switch {
	case domain.IsUnauthorized(err):
		a.sessions.HandleUnauthorized()
		if service.Enforce(a.sessions.Current()) == service.RedirectToAuth {
			fmt.Println("Session rejected by the server. Run 'uniblog login' to sign in again.")
		}
	case domain.IsLocalValidation(err), domain.IsRequestFailed(err):
		var f *domain.Failure
		if errors.As(err, &f) {
			fmt.Println(f.Detail)
		} else {
			fmt.Println(err)
		}
	case domain.IsUnreachable(err):
		fmt.Println("The server could not be reached. Check your connection and try again.")
	default:
		a.log.Error().Err(err).Msg("unexpected failure")
		fmt.Println("Something went wrong.")
	}
	return 1
}
