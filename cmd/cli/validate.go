package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/auth"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/config"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/logging"
	"github.com/gin-gonic/gin"
)

const (
	startupAttempts   = 10
	startupRetryDelay = 500 * time.Millisecond
	shutdownTimeout   = 5 * time.Second
	requestTimeout    = 30 * time.Second
)

func cmdValidateSupabase(args []string) int {
	fs := flag.NewFlagSet("validate-supabase", flag.ExitOnError)
	email := fs.String("email", "", "User email (required)")
	host := fs.String("host", "127.0.0.1", "Host for the temporary server")
	port := fs.Int("port", 8000, "Port for the temporary server")
	cfgPath := fs.String("config", "", "Optional path to YAML config")
	_ = fs.Parse(args)

	if *email == "" {
		fmt.Println("--email is required")
		return 2
	}

	settings, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		fmt.Println("Please set these environment variables before running the command.")
		return 1
	}
	fmt.Printf("Environment loaded - connecting to %s\n", settings.Supabase.URL)

	password, err := readPassword(*email)
	if err != nil {
		fmt.Printf("ERROR: failed to read password: %v\n", err)
		return 1
	}

	ctx := context.Background()
	logger, err := logging.New(settings.Logging, "error")
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	fmt.Printf("Authenticating user: %s\n", *email)
	gotrue := auth.NewGoTrueClient(settings.Supabase.URL, settings.Supabase.Key, settings.Supabase.Timeout, logger)
	session, err := gotrue.SignInWithPassword(ctx, *email, password)
	if err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		fmt.Println("User may only exist in Keycloak - sign in via web interface first")
		return 1
	}
	fmt.Println("Authentication successful")

	gin.SetMode(gin.ReleaseMode)
	deps, closeDeps, err := api.BuildDependencies(ctx, settings, logger)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return 1
	}
	defer closeDeps()

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))
	fmt.Printf("Starting server on %s\n", addr)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Printf("Server error: %v\n", err)
		return 1
	}
	server := &http.Server{Handler: api.NewRouter(settings, deps)}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Server shutdown timed out: %v\n", err)
		}
	}()

	baseURL := "http://" + addr
	client := &http.Client{Timeout: requestTimeout}
	if err := waitForServer(client, baseURL); err != nil {
		fmt.Printf("Server failed to start: %v\n", err)
		return 1
	}
	fmt.Printf("Server running on %s\n", baseURL)

	code := verifyWhoAmI(client, baseURL, session.AccessToken, settings.Auth.AdminRoleName)
	fmt.Println("Verification complete")
	return code
}

func readPassword(email string) (string, error) {
	if pw := os.Getenv("VALIDATE_PASSWORD"); pw != "" {
		return pw, nil
	}
	fmt.Printf("Enter password for %s: ", email)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func waitForServer(client *http.Client, baseURL string) error {
	var lastErr error
	for attempt := 0; attempt < startupAttempts; attempt++ {
		time.Sleep(startupRetryDelay)
		resp, err := client.Get(baseURL + "/health")
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return nil
		}
		lastErr = fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return lastErr
}

func verifyWhoAmI(client *http.Client, baseURL, token, adminRole string) int {
	fmt.Printf("Verifying %s/whoami\n", baseURL)

	req, err := http.NewRequest(http.MethodGet, baseURL+"/whoami", nil)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return 1
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()
	fmt.Printf("Response: %d\n", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return 1
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed: %d\n%s\n", resp.StatusCode, body)
		return 1
	}

	var who models.WhoAmIResponse
	if err := json.Unmarshal(body, &who); err != nil {
		fmt.Printf("Unexpected response: %v\n", err)
		return 1
	}
	fmt.Println("Authentication verified")
	printUserInfo(os.Stdout, &who, adminRole)
	return 0
}

func printUserInfo(out io.Writer, who *models.WhoAmIResponse, adminRole string) {
	user := who.User.User
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROPERTY\tVALUE")
	fmt.Fprintf(w, "User ID\t%s\n", orNA(user.ID))
	fmt.Fprintf(w, "Email\t%s\n", orNA(user.Email))
	fmt.Fprintf(w, "Created\t%s\n", orNA(user.CreatedAt))

	if len(who.KeycloakRoles) == 0 {
		fmt.Fprintln(w, "Keycloak Roles\tNone")
	} else {
		fmt.Fprintf(w, "Keycloak Roles\t%d roles:\n", len(who.KeycloakRoles))
		for _, role := range who.KeycloakRoles {
			line := "- " + orNA(role.Name)
			if role.Description != nil && *role.Description != "" {
				line += ": " + *role.Description
			}
			fmt.Fprintf(w, "\t%s\n", line)
		}
	}

	admin := "No"
	if who.AuthenticatedUser.HasRole(adminRole) {
		admin = "Yes"
	}
	fmt.Fprintf(w, "Admin Role\t%s\n", admin)
	_ = w.Flush()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
