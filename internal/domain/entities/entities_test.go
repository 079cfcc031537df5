package entities

import (
	"testing"
	"time"
)

func int64Ptr(v int64) *int64 { return &v }

func TestAppointment_ChainRoot_Initial(t *testing.T) {
	a := &Appointment{ID: 42, AppointmentType: AppointmentTypeInitial}
	root, err := a.ChainRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != 42 {
		t.Errorf("expected root 42, got %d", root)
	}
}

func TestAppointment_ChainRoot_FollowUp(t *testing.T) {
	a := &Appointment{ID: 57, AppointmentType: AppointmentTypeFollowUp, InitialAppointment: int64Ptr(42)}
	root, err := a.ChainRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root != 42 {
		t.Errorf("follow-up of a follow-up must point to the chain root, got %d", root)
	}
}

func TestAppointment_ChainRoot_BrokenFollowUp(t *testing.T) {
	a := &Appointment{ID: 57, AppointmentType: AppointmentTypeFollowUp}
	if _, err := a.ChainRoot(); err != ErrMissingChainRoot {
		t.Errorf("expected ErrMissingChainRoot, got %v", err)
	}
}

func TestGroupedAppointments_Flatten(t *testing.T) {
	g := GroupedAppointments{
		Initial:  []Appointment{{ID: 1}, {ID: 2}},
		FollowUp: []Appointment{{ID: 3}},
	}
	flat := g.Flatten()
	if len(flat) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(flat))
	}
	for i, want := range []int64{1, 2, 3} {
		if flat[i].ID != want {
			t.Errorf("position %d: expected id %d, got %d", i, want, flat[i].ID)
		}
	}
}

func TestCreateAppointmentData_Validate(t *testing.T) {
	date := time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local)
	valid := CreateAppointmentData{PatientID: 1, DoctorID: 2, AppointmentDate: date, AppointmentType: AppointmentTypeInitial}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	followUp := valid
	followUp.AppointmentType = AppointmentTypeFollowUp
	if err := followUp.Validate(); err != ErrMissingChainRoot {
		t.Errorf("expected ErrMissingChainRoot, got %v", err)
	}

	followUp.InitialAppointmentID = int64Ptr(9)
	if err := followUp.Validate(); err != nil {
		t.Errorf("expected valid follow-up, got %v", err)
	}

	noDate := valid
	noDate.AppointmentDate = time.Time{}
	if err := noDate.Validate(); err == nil {
		t.Error("expected error for missing date")
	}
}

func TestPayment_AmountValue(t *testing.T) {
	p := &Payment{Amount: "500.50"}
	if got := p.AmountValue(); got != 500.50 {
		t.Errorf("expected 500.50, got %v", got)
	}
	p.Amount = "n/a"
	if got := p.AmountValue(); got != 0 {
		t.Errorf("expected 0 for malformed amount, got %v", got)
	}
}

func TestPatient_Matches(t *testing.T) {
	p := &Patient{FirstName: "Abebe", LastName: "Kebede", ContactNumber: "0911223344"}
	cases := map[string]bool{
		"":        true,
		"abebe k": true,
		"KEBEDE":  true,
		"0911":    true,
		"almaz":   false,
	}
	for q, want := range cases {
		if got := p.Matches(q); got != want {
			t.Errorf("Matches(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestUser_Matches(t *testing.T) {
	u := &User{Username: "drhanna", FirstName: "Hanna", LastName: "Tesfaye", Email: "hanna@hms.et"}
	if !u.Matches("hms.et") {
		t.Error("expected email match")
	}
	if !u.Matches("DRHAN") {
		t.Error("expected username match")
	}
	if u.Matches("zzz") {
		t.Error("expected no match")
	}
}

func TestPatient_RegisteredOn(t *testing.T) {
	now := time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC)
	p := &Patient{CreatedAt: now.Add(-2 * time.Hour)}
	if !p.RegisteredOn(now) {
		t.Error("expected patient registered today")
	}
	p.CreatedAt = now.AddDate(0, 0, -1)
	if p.RegisteredOn(now) {
		t.Error("expected patient registered yesterday")
	}
}
