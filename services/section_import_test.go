package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseSectionFile_CSV(t *testing.T) {
	input := "Section Name *,Area (m2) *,Depth (mm) *,Mix Type *,Specification,Unit Price ($/t),Colour\n" +
		"Driveway,200,40,AC14 (14mm),,$120,black\n" +
		",,,,,,\n" +
		"Car park,\"1,500\",50,ac20,RMS R116,110,\n"

	res, err := ParseSectionFile(strings.NewReader(input), "areas.CSV")
	if err != nil {
		t.Fatalf("ParseSectionFile() error = %v", err)
	}
	if !res.Valid() {
		t.Fatalf("expected no row errors, got %+v", res.Errors)
	}
	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.Sections))
	}

	first := res.Sections[0]
	if first.MixType != MixAC14 || first.Specification != SpecLocalCouncil {
		t.Errorf("first section mix/spec = %s/%s", first.MixType, first.Specification)
	}
	if !first.UnitPricePerTonne.Equal(dec("120")) {
		t.Errorf("unit price = %s, want 120", first.UnitPricePerTonne)
	}
	second := res.Sections[1]
	if !second.AreaSqm.Equal(dec("1500")) || second.Specification != SpecRMSR116 {
		t.Errorf("second section = %+v", second)
	}
	if len(res.Ignored) != 1 || res.Ignored[0] != "Colour" {
		t.Errorf("ignored = %v, want [Colour]", res.Ignored)
	}
}

func TestParseSectionFile_RowErrors(t *testing.T) {
	input := "name,area_sqm,depth_mm,asphalt_mix_type,specification,custom_specification\n" +
		"Driveway,abc,40,ac14,,\n" +
		"Footpath,20,0.5,ac10,,\n" +
		"Kerb,10,30,tar,,\n" +
		"Ramp,10,30,ac10,custom,\n" +
		"Lane,10,30,ac10,,\n"

	res, err := ParseSectionFile(strings.NewReader(input), "areas.csv")
	if err != nil {
		t.Fatalf("ParseSectionFile() error = %v", err)
	}
	if res.Valid() {
		t.Fatal("expected row errors")
	}
	if len(res.Sections) != 1 || res.Sections[0].Name != "Lane" {
		t.Errorf("expected only Lane to import, got %+v", res.Sections)
	}

	want := map[int]string{
		2: "area_sqm",
		3: "depth_mm",
		4: "asphalt_mix_type",
		5: "custom_specification",
	}
	got := make(map[int]string)
	for _, e := range res.Errors {
		got[e.Row] = e.Field
	}
	for row, field := range want {
		if got[row] != field {
			t.Errorf("row %d: error field = %q, want %q (all: %+v)", row, got[row], field, res.Errors)
		}
	}
}

func TestParseSectionFile_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fileName string
		wantErr  string
	}{
		{"unsupported type", "x", "areas.txt", "unsupported file type"},
		{"header only", "Section Name,Area (m2),Depth (mm),Mix Type\n", "a.csv", "at least one data row"},
		{"blank rows only", "Section Name,Area (m2),Depth (mm),Mix Type\n,,,\n", "a.csv", "at least one data row"},
		{"missing column", "Section Name,Area (m2),Mix Type\nA,1,ac10\n", "a.csv", "Depth (mm)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSectionFile(strings.NewReader(tt.input), tt.fileName)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateSectionTemplate_RoundTrip(t *testing.T) {
	data, err := GenerateSectionTemplate()
	if err != nil {
		t.Fatalf("GenerateSectionTemplate() error = %v", err)
	}

	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	if got, _ := f.GetCellValue("Sections", "A1"); got != "Section Name *" {
		t.Errorf("A1 = %q, want %q", got, "Section Name *")
	}
	if got, _ := f.GetCellValue("Sections", "E1"); got != "Specification" {
		t.Errorf("E1 = %q, want Specification", got)
	}
	if visible, _ := f.GetSheetVisible("Instructions"); visible {
		t.Error("expected Instructions sheet to be hidden")
	}

	f.SetCellValue("Sections", "A2", "Driveway")
	f.SetCellValue("Sections", "B2", 200)
	f.SetCellValue("Sections", "C2", 40)
	f.SetCellValue("Sections", "D2", MixAC14.Label())
	f.SetCellValue("Sections", "G2", 120)
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write filled template: %v", err)
	}
	f.Close()

	res, err := ParseSectionFile(&buf, "filled.xlsx")
	if err != nil {
		t.Fatalf("ParseSectionFile() error = %v", err)
	}
	if !res.Valid() || len(res.Sections) != 1 {
		t.Fatalf("expected one valid section, got %+v", res)
	}
	if res.Sections[0].MixType != MixAC14 {
		t.Errorf("mix = %s, want ac14", res.Sections[0].MixType)
	}
}

func TestGenerateImportErrorReport(t *testing.T) {
	data, err := GenerateImportErrorReport([]ImportRowError{
		{Row: 3, Field: "depth_mm", Message: "Depth must be at least 1mm"},
	})
	if err != nil {
		t.Fatalf("GenerateImportErrorReport() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Errors", "A2"); got != "3" {
		t.Errorf("A2 = %q, want 3", got)
	}
	if got, _ := f.GetCellValue("Errors", "C2"); !strings.Contains(got, "1mm") {
		t.Errorf("C2 = %q", got)
	}
}
