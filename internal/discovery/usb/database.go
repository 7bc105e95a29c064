// internal/discovery/usb/database.go
package usb

import (
	"strings"

	"github.com/google/gousb"

	"scope-service/internal/model"
)

// InstrumentDatabase holds USB identifiers of known instruments
type InstrumentDatabase struct {
	vendors map[gousb.ID]*VendorInfo
}

// VendorInfo holds vendor details and its known products
type VendorInfo struct {
	Brand    model.InstrumentBrand
	Name     string
	products map[gousb.ID]*ProductInfo
}

// ProductInfo holds instrument details for a specific product ID
type ProductInfo struct {
	Model          string
	InstrumentType model.InstrumentType
	Capabilities   []string
	Confidence     float64
}

// handheldModels maps the model token found in USB descriptor strings to the
// capabilities of that variant. The whole 2C/2D handheld family enumerates
// with the same product ID, so the token is the only way to tell them apart.
var handheldModels = map[string][]string{
	"2C42": {"capture", "stream", "trigger", "multimeter", "screen", "dual_channel"},
	"2C72": {"capture", "stream", "trigger", "multimeter", "screen", "dual_channel"},
	"2D42": {"capture", "stream", "trigger", "multimeter", "screen", "generator", "dual_channel"},
	"2D72": {"capture", "stream", "trigger", "multimeter", "screen", "generator", "dual_channel"},
}

// NewInstrumentDatabase creates a database of known USB instruments
func NewInstrumentDatabase() *InstrumentDatabase {
	db := &InstrumentDatabase{
		vendors: make(map[gousb.ID]*VendorInfo),
	}

	// Hantek handhelds enumerate under the ST Microelectronics vendor ID
	// with a product ID that is not in ST's catalog.
	db.vendors[0x0483] = &VendorInfo{
		Brand: model.BrandHantek,
		Name:  "Hantek",
		products: map[gousb.ID]*ProductInfo{
			0x2d42: {
				Model:          "2D72",
				InstrumentType: model.InstrumentTypeOscilloscope,
				Capabilities:   handheldModels["2D72"],
				Confidence:     0.85,
			},
		},
	}

	// Owon handheld series
	db.vendors[0x5345] = &VendorInfo{
		Brand: model.BrandOwon,
		Name:  "Owon",
		products: map[gousb.ID]*ProductInfo{
			0x1234: {
				Model:          "HDS272S",
				InstrumentType: model.InstrumentTypeOscilloscope,
				Capabilities:   []string{"capture", "multimeter", "generator", "dual_channel"},
				Confidence:     0.90,
			},
		},
	}

	// Rigol bench oscilloscopes
	db.vendors[0x1ab1] = &VendorInfo{
		Brand: model.BrandRigol,
		Name:  "Rigol Technologies",
		products: map[gousb.ID]*ProductInfo{
			0x0588: {
				Model:          "DS1102E",
				InstrumentType: model.InstrumentTypeOscilloscope,
				Capabilities:   []string{"capture", "trigger", "dual_channel"},
				Confidence:     0.95,
			},
			0x04ce: {
				Model:          "DS1054Z",
				InstrumentType: model.InstrumentTypeOscilloscope,
				Capabilities:   []string{"capture", "trigger", "dual_channel"},
				Confidence:     0.95,
			},
		},
	}

	// Siglent bench oscilloscopes
	db.vendors[0xf4ec] = &VendorInfo{
		Brand: model.BrandSiglent,
		Name:  "Siglent Technologies",
		products: map[gousb.ID]*ProductInfo{
			0xee38: {
				Model:          "SDS1104X-E",
				InstrumentType: model.InstrumentTypeOscilloscope,
				Capabilities:   []string{"capture", "trigger", "dual_channel"},
				Confidence:     0.95,
			},
		},
	}

	return db
}

// IsKnownVendor checks if the vendor ID belongs to a known instrument maker
func (db *InstrumentDatabase) IsKnownVendor(vendorID gousb.ID) bool {
	_, exists := db.vendors[vendorID]
	return exists
}

// GetVendorInfo returns vendor information for the given vendor ID
func (db *InstrumentDatabase) GetVendorInfo(vendorID gousb.ID) *VendorInfo {
	return db.vendors[vendorID]
}

// GetProductInfo returns product information for the given vendor and product ID
func (db *InstrumentDatabase) GetProductInfo(vendorID, productID gousb.ID) *ProductInfo {
	vendor, exists := db.vendors[vendorID]
	if !exists {
		return nil
	}
	return vendor.products[productID]
}

// RefineHandheldModel narrows a shared family product ID down to the concrete
// model by looking for a model token in the USB descriptor strings. The
// returned info is a copy; the database entry is never modified.
func (db *InstrumentDatabase) RefineHandheldModel(info *ProductInfo, descriptors ...string) *ProductInfo {
	for _, descriptor := range descriptors {
		upper := strings.ToUpper(descriptor)
		for token, capabilities := range handheldModels {
			if strings.Contains(upper, token) {
				refined := *info
				refined.Model = token
				refined.Capabilities = capabilities
				refined.Confidence = 0.95
				return &refined
			}
		}
	}
	return info
}

// GetTotalProductCount returns the number of known products across all vendors
func (db *InstrumentDatabase) GetTotalProductCount() int {
	count := 0
	for _, vendor := range db.vendors {
		count += len(vendor.products)
	}
	return count
}

// AddVendor adds a custom vendor to the database
func (db *InstrumentDatabase) AddVendor(vendorID gousb.ID, info *VendorInfo) {
	if info.products == nil {
		info.products = make(map[gousb.ID]*ProductInfo)
	}
	db.vendors[vendorID] = info
}

// AddProduct adds a custom product to an existing vendor
func (db *InstrumentDatabase) AddProduct(vendorID, productID gousb.ID, info *ProductInfo) bool {
	vendor, exists := db.vendors[vendorID]
	if !exists {
		return false
	}
	vendor.products[productID] = info
	return true
}
