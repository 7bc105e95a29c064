// internal/discovery/usb/database_test.go
package usb

import (
	"testing"

	"scope-service/internal/model"
)

func TestKnownVendorLookup(t *testing.T) {
	db := NewInstrumentDatabase()

	if !db.IsKnownVendor(0x0483) {
		t.Error("expected 0x0483 to be a known vendor")
	}
	if db.IsKnownVendor(0xdead) {
		t.Error("expected 0xdead to be unknown")
	}

	vendor := db.GetVendorInfo(0x0483)
	if vendor == nil {
		t.Fatal("GetVendorInfo(0x0483) returned nil")
	}
	if vendor.Brand != model.BrandHantek {
		t.Errorf("Brand = %s, want %s", vendor.Brand, model.BrandHantek)
	}
}

func TestProductLookup(t *testing.T) {
	db := NewInstrumentDatabase()

	info := db.GetProductInfo(0x0483, 0x2d42)
	if info == nil {
		t.Fatal("expected product info for 0483:2d42")
	}
	if info.Model != "2D72" {
		t.Errorf("Model = %s, want 2D72", info.Model)
	}
	if info.InstrumentType != model.InstrumentTypeOscilloscope {
		t.Errorf("InstrumentType = %s, want %s", info.InstrumentType, model.InstrumentTypeOscilloscope)
	}

	if db.GetProductInfo(0x0483, 0xffff) != nil {
		t.Error("expected nil for unknown product")
	}
	if db.GetProductInfo(0xdead, 0x2d42) != nil {
		t.Error("expected nil for unknown vendor")
	}
}

func TestRefineHandheldModel(t *testing.T) {
	db := NewInstrumentDatabase()
	base := db.GetProductInfo(0x0483, 0x2d42)

	tests := []struct {
		name        string
		descriptors []string
		wantModel   string
		wantAWG     bool
	}{
		{"product string", []string{"Hantek 2C42", ""}, "2C42", false},
		{"serial number", []string{"", "CN2D420012345"}, "2D42", true},
		{"lowercase descriptor", []string{"hantek 2d72 scope", ""}, "2D72", true},
		{"no token", []string{"oscilloscope", "SN0001"}, "2D72", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refined := db.RefineHandheldModel(base, tt.descriptors...)
			if refined.Model != tt.wantModel {
				t.Errorf("Model = %s, want %s", refined.Model, tt.wantModel)
			}

			hasAWG := false
			for _, capability := range refined.Capabilities {
				if capability == "generator" {
					hasAWG = true
				}
			}
			if hasAWG != tt.wantAWG {
				t.Errorf("generator capability = %v, want %v", hasAWG, tt.wantAWG)
			}
		})
	}

	if base.Model != "2D72" {
		t.Errorf("database entry mutated by refinement: %s", base.Model)
	}
}

func TestAddVendorAndProduct(t *testing.T) {
	db := NewInstrumentDatabase()
	before := db.GetTotalProductCount()

	db.AddVendor(0x1111, &VendorInfo{Brand: model.BrandUniT, Name: "Uni-T"})
	if !db.IsKnownVendor(0x1111) {
		t.Fatal("added vendor not found")
	}

	ok := db.AddProduct(0x1111, 0x2222, &ProductInfo{
		Model:          "UT181A",
		InstrumentType: model.InstrumentTypeMultimeter,
		Capabilities:   []string{"multimeter"},
		Confidence:     0.9,
	})
	if !ok {
		t.Fatal("AddProduct returned false for existing vendor")
	}
	if got := db.GetTotalProductCount(); got != before+1 {
		t.Errorf("product count = %d, want %d", got, before+1)
	}

	if db.AddProduct(0x9999, 0x0001, &ProductInfo{}) {
		t.Error("AddProduct should fail for unknown vendor")
	}
}
