package domain

import "strings"

// RouteUnassigned is the bucket for stores with no route mapping.
const RouteUnassigned = "SIN_RUTA"

// StoreInfo is the static reference data for one store.
type StoreInfo struct {
	Name      string     `json:"name"`
	Route     string     `json:"route"`
	Class     StoreClass `json:"class"`
	HasClinic bool       `json:"has_clinic"`
}

// StoreDirectory resolves store names to route, class and clinic membership.
// It is explicit configuration handed to the engine at construction time;
// lookups are case-insensitive on the store name.
type StoreDirectory struct {
	stores map[string]StoreInfo
}

// NewStoreDirectory builds a directory from explicit rows.
func NewStoreDirectory(rows []StoreInfo) *StoreDirectory {
	d := &StoreDirectory{stores: make(map[string]StoreInfo, len(rows))}
	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.Name))
		if key == "" {
			continue
		}
		if row.Class == "" {
			row.Class = ClassRegular
		}
		d.stores[key] = row
	}
	return d
}

// Route returns the store's delivery route, or RouteUnassigned.
func (d *StoreDirectory) Route(store string) string {
	if info, ok := d.lookup(store); ok && info.Route != "" {
		return info.Route
	}
	return RouteUnassigned
}

// Class returns the store's class; unknown stores count as regular.
func (d *StoreDirectory) Class(store string) StoreClass {
	if info, ok := d.lookup(store); ok {
		return info.Class
	}
	return ClassRegular
}

// HasClinic reports whether the store operates a veterinary clinic.
func (d *StoreDirectory) HasClinic(store string) bool {
	info, ok := d.lookup(store)
	return ok && info.HasClinic
}

// Stores returns all known store rows.
func (d *StoreDirectory) Stores() []StoreInfo {
	out := make([]StoreInfo, 0, len(d.stores))
	for _, info := range d.stores {
		out = append(out, info)
	}
	return out
}

func (d *StoreDirectory) lookup(store string) (StoreInfo, bool) {
	info, ok := d.stores[strings.ToLower(strings.TrimSpace(store))]
	return info, ok
}

// DefaultStoreDirectory is the reference deployment: three delivery routes,
// one small-format store, and the clinic set.
func DefaultStoreDirectory() *StoreDirectory {
	rows := []StoreInfo{
		{Name: "brisas del golf", Route: "R1", Class: ClassRegular, HasClinic: true},
		{Name: "brisas norte", Route: "R1", Class: ClassRegular},
		{Name: "villa zaita", Route: "R1", Class: ClassRegular, HasClinic: true},
		{Name: "condado del rey", Route: "R1", Class: ClassRegular},
		{Name: "albrook fields", Route: "R2", Class: ClassRegular, HasClinic: true},
		{Name: "bella vista", Route: "R2", Class: ClassRegular, HasClinic: true},
		{Name: "plaza emporio", Route: "R2", Class: ClassSmall, HasClinic: true},
		{Name: "ocean mall", Route: "R2", Class: ClassRegular, HasClinic: true},
		{Name: "santa maria", Route: "R2", Class: ClassRegular, HasClinic: true},
		{Name: "calle 50", Route: "R3", Class: ClassRegular, HasClinic: true},
		{Name: "coco del mar", Route: "R3", Class: ClassRegular},
		{Name: "versalles", Route: "R3", Class: ClassRegular},
		{Name: "costa verde", Route: "R3", Class: ClassRegular},
		{Name: "david", Class: ClassRegular},
	}
	return NewStoreDirectory(rows)
}
