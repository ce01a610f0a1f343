package errors

import (
	"strings"
	"testing"
)

func TestValidateEntityName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Binance", false},
		{"Fidelity Digital Assets", false},
		{"", true},
		{"bad\x00name", true},
		{"tab\there", true},
		{strings.Repeat("x", 257), true},
	}

	for _, tt := range tests {
		err := ValidateEntityName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEntityName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateAssetSymbol(t *testing.T) {
	tests := []struct {
		symbol  string
		wantErr bool
	}{
		{"BTC", false},
		{"1INCH", false},
		{"", true},
		{"BT C", true},
		{strings.Repeat("X", 33), true},
	}

	for _, tt := range tests {
		err := ValidateAssetSymbol(tt.symbol)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAssetSymbol(%q) error = %v, wantErr %v", tt.symbol, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://api.coingecko.com/api/v3"); err != nil {
		t.Errorf("https URL should pass: %v", err)
	}
	if err := ValidateURL("ftp://example.com"); err == nil {
		t.Error("non-http scheme should fail")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("empty URL should fail")
	}
}
