package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tareas/internal/backend/googletasks"
	"tareas/internal/config"
	"tareas/internal/exitcode"
)

const (
	oauthCallbackTimeout = 5 * time.Minute
	tokenExchangeTimeout = 30 * time.Second
	oauthStartPort       = 8085
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&LinkGoogleCmd{})
}

// LinkGoogleCmd authorizes tareas to keep tasks in Google Tasks.
type LinkGoogleCmd struct {
	remove bool
}

func (c *LinkGoogleCmd) Name() string       { return "link-google" }
func (c *LinkGoogleCmd) Aliases() []string  { return nil }
func (c *LinkGoogleCmd) Synopsis() string   { return "Authorize Google Tasks storage" }
func (c *LinkGoogleCmd) Usage() string      { return "tareas link-google [--remove]" }
func (c *LinkGoogleCmd) Needs() Requirement { return NeedsSettings }

func (c *LinkGoogleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.remove, "remove", false, "")
}

func (c *LinkGoogleCmd) Run(ctx context.Context, env *Env, args []string) int {
	cfg := env.Config
	if c.remove {
		return unlinkGoogle(env)
	}

	if !cfg.HasOAuthClient() {
		printOAuthSetup(env, cfg)
		return exitcode.AuthError
	}

	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to read %s: %v\n", config.OAuthClientFile, err)
		return exitcode.AuthError
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, googletasks.TasksScope)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: invalid %s: %v\n", config.OAuthClientFile, err)
		return exitcode.AuthError
	}

	if cfg.HasToken() && tokenUsable(ctx, cfg, oauthConfig) {
		if !cfg.Quiet {
			fmt.Fprintln(env.Out, "already linked")
		}
		return c.hint(env)
	}

	port, listener, err := findAvailablePort()
	if err != nil {
		fmt.Fprintln(env.ErrOut, "error: could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer listener.Close()

	oauthConfig.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)

	fmt.Fprintln(env.ErrOut, "Open this URL in your browser:")
	fmt.Fprintln(env.ErrOut, authURL)

	code, err := awaitCallback(ctx, listener)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := saveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	env.Logger.Debug("google tasks linked", "token", cfg.TokenPath())
	if !cfg.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return c.hint(env)
}

// hint reminds the user to switch backends when tasks are not yet kept in Google.
func (c *LinkGoogleCmd) hint(env *Env) int {
	if env.Config.Settings.Backend != config.BackendGoogle && !env.Config.Quiet {
		fmt.Fprintf(env.Out, "set \"backend: %s\" in %s to keep tasks in Google Tasks\n",
			config.BackendGoogle, env.Config.SettingsPath())
	}
	return exitcode.Success
}

func unlinkGoogle(env *Env) int {
	cfg := env.Config
	if !cfg.HasToken() {
		if !cfg.Quiet {
			fmt.Fprintln(env.Out, "not linked")
		}
		return exitcode.Success
	}
	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(env.ErrOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}

func printOAuthSetup(env *Env, cfg *config.Config) {
	w := env.ErrOut
	fmt.Fprintf(w, "error: %s not found in %s\n\n", config.OAuthClientFile, cfg.Dir)
	fmt.Fprintln(w, "To keep tasks in Google Tasks, you need OAuth credentials:")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(w, "2. Enable the Google Tasks API:")
	fmt.Fprintln(w, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
	fmt.Fprintln(w, "3. Create an OAuth client ID of type 'Desktop app' and download the JSON file")
	fmt.Fprintf(w, "4. Save it as %s\n", cfg.OAuthClientPath())
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Then run 'tareas link-google' again.")
}

// awaitCallback serves the OAuth redirect on listener and returns the code.
func awaitCallback(ctx context.Context, listener net.Listener) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			errCh <- fmt.Errorf("no code in callback")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><h1>Google Tasks vinculado</h1><p>Ya puedes cerrar esta ventana.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(oauthCallbackTimeout):
		return "", fmt.Errorf("oauth callback timed out")
	case <-ctx.Done():
		return "", fmt.Errorf("cancelled")
	}
}

// findAvailablePort tries to find an available port starting from oauthStartPort.
func findAvailablePort() (int, net.Listener, error) {
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port := oauthStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("no available port found")
}

// tokenUsable reports whether the stored token has a refresh token and can
// produce an access token.
func tokenUsable(ctx context.Context, cfg *config.Config, oauthConfig *oauth2.Config) bool {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return false
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil || token.RefreshToken == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err = oauthConfig.TokenSource(ctx, &token).Token()
	return err == nil
}

// saveToken saves an OAuth token to a file with mode 0600.
func saveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
