package models

import (
	"strings"
	"testing"
)

func TestUserCreateRequestValidate(t *testing.T) {
	valid := UserCreateRequest{
		Name:     "Maria Silva",
		TaxID:    "123.456.789-09",
		Email:    "maria@example.com",
		Password: "s3cret-password",
	}

	tests := []struct {
		name    string
		modify  func(req *UserCreateRequest)
		wantErr bool
	}{
		{"valid request", func(req *UserCreateRequest) {}, false},
		{"cnpj tax id", func(req *UserCreateRequest) { req.TaxID = "12.345.678/0001-95" }, false},
		{"empty name", func(req *UserCreateRequest) { req.Name = "  " }, true},
		{"empty tax id", func(req *UserCreateRequest) { req.TaxID = "" }, true},
		{"short tax id", func(req *UserCreateRequest) { req.TaxID = "12345" }, true},
		{"tax id with letters", func(req *UserCreateRequest) { req.TaxID = "1234567890a" }, true},
		{"empty email", func(req *UserCreateRequest) { req.Email = "" }, true},
		{"bad email", func(req *UserCreateRequest) { req.Email = "not-an-email" }, true},
		{"short password", func(req *UserCreateRequest) { req.Password = "1234567" }, true},
		{"long password", func(req *UserCreateRequest) { req.Password = strings.Repeat("x", 73) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeTaxID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123.456.789-09", "12345678909"},
		{"12.345.678/0001-95", "12345678000195"},
		{"12345678909", "12345678909"},
		{" 123 456 789 09 ", "12345678909"},
	}

	for _, tt := range tests {
		if got := NormalizeTaxID(tt.in); got != tt.want {
			t.Errorf("NormalizeTaxID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
