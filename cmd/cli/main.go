package main

import (
	"fmt"
	"os"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/batch"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "npv", "ii", "opex", "roi", "irr":
		os.Exit(cmdCalculate(cmd, os.Args[2:]))
	case "validate-supabase":
		os.Exit(cmdValidateSupabase(os.Args[2:]))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli <metric> --in request.json [--csv results.csv] [--maintenance legacy|once]")
	fmt.Println("  cli validate-supabase --email user@example.com [--host 127.0.0.1] [--port 8000] [--config config.yaml]")
	fmt.Println("")
	fmt.Println("metrics:")
	for _, m := range batch.Metrics() {
		fmt.Printf("  %s\n", m)
	}
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - the request file holds one JSON request or an array of them; '-' reads stdin")
	fmt.Println("  - validate-supabase reads SUPABASE_URL, SUPABASE_KEY, KEYCLOAK_CLIENT_ID, KEYCLOAK_CLIENT_SECRET")
	fmt.Println("    and the password from VALIDATE_PASSWORD or stdin")
}
