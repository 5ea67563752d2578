package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Beigelman/house-crawler/internal/models"
)

func sampleProperties() []models.Property {
	return []models.Property{
		{Title: models.StringPtr("Apartamento & cobertura na Asa Sul"), Price: "R$ 950.000,00", Link: "https://www.wimoveis.com.br/propriedades/1.html"},
		{Title: nil, Price: "", Link: "https://www.wimoveis.com.br/propriedades/2.html"},
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, sampleProperties()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `"titulo": "Apartamento & cobertura na Asa Sul"`) {
		t.Errorf("Expected literal non-escaped title, got:\n%s", out)
	}
	if !strings.Contains(out, `"titulo": null`) {
		t.Errorf("Expected absent title to encode as null, got:\n%s", out)
	}
	if !strings.Contains(out, "\n  {\n    \"titulo\"") {
		t.Errorf("Expected two-space indentation, got:\n%s", out)
	}
}

func TestEncodeJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Expected empty array, got %q", buf.String())
	}
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "imoveis.json")
	props := []models.Property{{Title: models.StringPtr("Imóvel à venda"), Price: "R$ 1,00", Link: "https://www.dfimoveis.com.br/imovel/1"}}

	if err := WriteJSONFile(path, props); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected file, got %v", err)
	}
	if !strings.Contains(string(raw), "Imóvel à venda") {
		t.Errorf("Expected UTF-8 text preserved, got %s", raw)
	}

	var decoded []models.Property
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %v", err)
	}
	if len(decoded) != 1 || decoded[0].Link != props[0].Link {
		t.Errorf("Unexpected content: %+v", decoded)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	inserted, _ := s.InsertNew(ctx, sampleProperties())
	if len(inserted) != 2 {
		t.Fatalf("Expected 2 new properties, got %d", len(inserted))
	}

	again, _ := s.InsertNew(ctx, sampleProperties()[:1])
	if len(again) != 0 {
		t.Errorf("Expected duplicates to be ignored, got %d", len(again))
	}

	deleted, _ := s.DeleteByLinks(ctx, []string{sampleProperties()[0].Link, "https://unknown"})
	if deleted != 1 {
		t.Errorf("Expected 1 deletion, got %d", deleted)
	}

	all, _ := s.All(ctx)
	if len(all) != 1 || all[0].Link != sampleProperties()[1].Link {
		t.Errorf("Unexpected store content: %+v", all)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	s, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("Expected connection, got %v", err)
	}
	defer s.Close()

	props := sampleProperties()
	links := []string{props[0].Link, props[1].Link}
	if _, err := s.DeleteByLinks(ctx, links); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	defer s.DeleteByLinks(ctx, links)

	inserted, err := s.InsertNew(ctx, props)
	if err != nil {
		t.Fatalf("Expected insert, got %v", err)
	}
	if len(inserted) != 2 {
		t.Errorf("Expected 2 inserted, got %d", len(inserted))
	}

	inserted, err = s.InsertNew(ctx, props)
	if err != nil {
		t.Fatalf("Expected insert, got %v", err)
	}
	if len(inserted) != 0 {
		t.Errorf("Expected conflicts to be skipped, got %d", len(inserted))
	}
}
