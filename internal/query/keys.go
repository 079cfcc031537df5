package query

import (
	"strconv"
	"strings"
)

// Key identifies a cached query as an ordered tuple of parts
type Key []string

// String serializes the key with ":" between parts
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Equal reports whether both keys have the same parts
func (k Key) Equal(other Key) bool {
	return k.String() == other.String()
}

var (
	KeyPatients           = Key{"patients"}
	KeyPatientsToday      = Key{"patients", "today"}
	KeyAppointments       = Key{"appointments"}
	KeyAppointmentsToday  = Key{"appointments", "today"}
	KeyTreatments         = Key{"treatments"}
	KeyTreatmentsToday    = Key{"treatments", "today"}
	KeyPaymentsAll        = Key{"payments", "all"}
	KeyPaymentsToday      = Key{"payments", "today"}
	KeyPaymentsTotal      = Key{"payments", "total"}
	KeyPaymentsTodayTotal = Key{"payments", "today_total"}
	KeyUsers              = Key{"users"}
	KeyDoctors            = Key{"doctors"}
	KeyProfile            = Key{"profile"}
)

// PatientKey is the key of a single patient
func PatientKey(id int64) Key {
	return Key{"patient", strconv.FormatInt(id, 10)}
}

// AppointmentKey is the key of a single appointment
func AppointmentKey(id int64) Key {
	return Key{"appointment", strconv.FormatInt(id, 10)}
}

// TreatmentKey is the key of a single treatment
func TreatmentKey(id int64) Key {
	return Key{"treatment", strconv.FormatInt(id, 10)}
}

// PaymentKey is the key of a single payment
func PaymentKey(id int64) Key {
	return Key{"payment", strconv.FormatInt(id, 10)}
}

// Strings renders keys for events and logs
func Strings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
