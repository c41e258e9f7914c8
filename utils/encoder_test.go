package utils_test

import (
	"strings"
	"testing"

	"github.com/fbgraph/fbgraph/utils"
)

func TestEncodeJSONBody_NoHTMLEscaping(t *testing.T) {
	buf, err := utils.EncodeJSONBody(map[string]string{
		"link": "https://example.com/?a=1&b=2",
	})
	if err != nil {
		t.Fatalf("EncodeJSONBody: %v", err)
	}
	got := buf.String()
	if strings.Contains(got, `&`) {
		t.Fatalf("ampersand was HTML-escaped: %s", got)
	}
	if !strings.Contains(got, "a=1&b=2") {
		t.Fatalf("link mangled: %s", got)
	}
}

func TestEncodeJSONBody_Unencodable(t *testing.T) {
	if _, err := utils.EncodeJSONBody(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatalf("expected error for unencodable value")
	}
}
