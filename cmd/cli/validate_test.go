package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/auth"
)

func TestPrintUserInfo(t *testing.T) {
	desc := "Platform administrator"
	who := &models.WhoAmIResponse{
		AuthenticatedUser: auth.AuthenticatedUser{
			User: auth.UserResponse{User: auth.User{ID: "user-1", Email: "user@example.com"}},
			KeycloakRoles: []auth.KeycloakRole{
				{ID: "r1", Name: "relife_admin", Description: &desc},
				{ID: "r2", Name: "offline_access"},
			},
		},
	}

	var out bytes.Buffer
	printUserInfo(&out, who, "relife_admin")
	text := out.String()

	for _, want := range []string{"user-1", "user@example.com", "N/A", "2 roles:", "- relife_admin: Platform administrator", "- offline_access"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(text, "Admin Role") || !strings.Contains(text, "Yes") {
		t.Errorf("expected admin flag:\n%s", text)
	}

	out.Reset()
	who.KeycloakRoles = nil
	printUserInfo(&out, who, "relife_admin")
	if !strings.Contains(out.String(), "None") || strings.Contains(out.String(), "Yes") {
		t.Errorf("unexpected output without roles:\n%s", out.String())
	}
}
