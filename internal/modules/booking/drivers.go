package booking

import (
	"fmt"
	"strings"
	"sync/atomic"

	"ride-booking/internal/models"
)

// ParseRoster reads "Name|+phone" entries separated by commas.
func ParseRoster(s string) ([]models.Driver, error) {
	var drivers []models.Driver
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, phone, ok := strings.Cut(entry, "|")
		name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
		if !ok || name == "" || phone == "" {
			return nil, fmt.Errorf("invalid roster entry %q: want Name|phone", entry)
		}
		drivers = append(drivers, models.Driver{Name: name, Phone: phone})
	}
	return drivers, nil
}

// DriverPool hands out drivers round-robin.
type DriverPool struct {
	drivers []models.Driver
	next    atomic.Uint64
}

func NewDriverPool(drivers []models.Driver) *DriverPool {
	return &DriverPool{drivers: drivers}
}

// Assign returns false when the roster is empty.
func (p *DriverPool) Assign() (models.Driver, bool) {
	if p == nil || len(p.drivers) == 0 {
		return models.Driver{}, false
	}
	n := p.next.Add(1) - 1
	return p.drivers[n%uint64(len(p.drivers))], true
}
