package scheduling

import (
	"context"
	"errors"
	"sync"

	appointmentRepo "medibook/database/repository/appointment"
	doctorRepo "medibook/database/repository/doctor"
	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
)

// fakeScheduleRepo is an in-memory ScheduleRepository honoring the same
// contract as the Mongo implementation: idempotent create-if-absent and an
// atomic conditional append keyed on the slot time.
type fakeScheduleRepo struct {
	mu          sync.Mutex
	schedules   map[string]*models.DaySchedule
	ensureCalls int
	failRelease bool
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[string]*models.DaySchedule)}
}

func scheduleKey(doctorID, date string) string {
	return doctorID + "|" + date
}

func (f *fakeScheduleRepo) EnsureDaySchedule(_ context.Context, doctorID, date string, baseSlotTimes []string, slotDurationMinutes int) (*models.DaySchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++

	key := scheduleKey(doctorID, date)
	if existing, ok := f.schedules[key]; ok {
		return copySchedule(existing), nil
	}
	sched := &models.DaySchedule{
		DoctorID:            doctorID,
		Date:                date,
		SlotDurationMinutes: slotDurationMinutes,
		BaseSlotTimes:       append([]string(nil), baseSlotTimes...),
		BookedSlots:         []models.BookedSlot{},
	}
	f.schedules[key] = sched
	return copySchedule(sched), nil
}

func (f *fakeScheduleRepo) GetDaySchedule(_ context.Context, doctorID, date string) (*models.DaySchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sched, ok := f.schedules[scheduleKey(doctorID, date)]
	if !ok {
		return nil, nil
	}
	return copySchedule(sched), nil
}

func (f *fakeScheduleRepo) ReserveSlot(_ context.Context, doctorID, date string, entry models.BookedSlot) (scheduleRepo.ReserveOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sched, ok := f.schedules[scheduleKey(doctorID, date)]
	if !ok {
		return scheduleRepo.ScheduleMissing, nil
	}
	for _, bs := range sched.BookedSlots {
		if bs.Time == entry.Time {
			return scheduleRepo.Conflict, nil
		}
	}
	sched.BookedSlots = append(sched.BookedSlots, entry)
	return scheduleRepo.Reserved, nil
}

func (f *fakeScheduleRepo) ReleaseSlot(_ context.Context, doctorID, date, slotTime string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRelease {
		return errors.New("simulated release failure")
	}
	sched, ok := f.schedules[scheduleKey(doctorID, date)]
	if !ok {
		return nil
	}
	kept := sched.BookedSlots[:0]
	for _, bs := range sched.BookedSlots {
		if bs.Time != slotTime {
			kept = append(kept, bs)
		}
	}
	sched.BookedSlots = kept
	return nil
}

func copySchedule(s *models.DaySchedule) *models.DaySchedule {
	out := *s
	out.BaseSlotTimes = append([]string(nil), s.BaseSlotTimes...)
	out.BookedSlots = append([]models.BookedSlot(nil), s.BookedSlots...)
	return &out
}

// fakeDoctorRepo serves a fixed set of doctors.
type fakeDoctorRepo struct {
	doctors map[string]*models.Doctor
}

func newFakeDoctorRepo(doctors ...*models.Doctor) *fakeDoctorRepo {
	m := make(map[string]*models.Doctor, len(doctors))
	for _, d := range doctors {
		m[d.ID] = d
	}
	return &fakeDoctorRepo{doctors: m}
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, doctorID string) (*models.Doctor, error) {
	return f.doctors[doctorID], nil
}

func (f *fakeDoctorRepo) Search(_ context.Context, _ models.DoctorSearchFilter) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, d := range f.doctors {
		out = append(out, *d)
	}
	return out, nil
}

// fakeAppointmentRepo is an in-memory AppointmentRepository with an
// injectable create failure for exercising compensation.
type fakeAppointmentRepo struct {
	mu         sync.Mutex
	appts      map[string]*models.Appointment
	failCreate bool
	failUpdate bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: make(map[string]*models.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate {
		return errors.New("simulated create failure")
	}
	cp := *appt
	f.appts[appt.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, appointmentID string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appt, ok := f.appts[appointmentID]
	if !ok {
		return nil, nil
	}
	cp := *appt
	return &cp, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpdate {
		return errors.New("simulated update failure")
	}
	if _, ok := f.appts[appt.ID]; !ok {
		return errors.New("appointment not found")
	}
	cp := *appt
	f.appts[appt.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListUpcomingByDoctor(_ context.Context, doctorID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, a := range f.appts {
		if a.DoctorID == doctorID && a.Status == models.AppointmentBooked {
			out = append(out, *a)
		}
	}
	return out, nil
}

var (
	_ scheduleRepo.ScheduleRepository       = (*fakeScheduleRepo)(nil)
	_ doctorRepo.DoctorRepository           = (*fakeDoctorRepo)(nil)
	_ appointmentRepo.AppointmentRepository = (*fakeAppointmentRepo)(nil)
)
