package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/models"
)

func testDoctor() *models.Doctor {
	return &models.Doctor{
		ID:             "doc-1",
		Name:           "Dr. Achieng",
		Specialization: "dermatology",
		ConsultationFee: models.ConsultationFees{
			Chat:  20,
			Voice: 30,
			Video: 50,
		},
		Availability:        models.AvailabilityWindow{From: "09:00", To: "12:00"},
		SlotDurationMinutes: 30,
		IsVerified:          true,
	}
}

type testEnv struct {
	svc       *DefaultAppointmentService
	schedules *fakeScheduleRepo
	appts     *fakeAppointmentRepo
	doctors   *fakeDoctorRepo
}

func newTestEnv(doctors ...*models.Doctor) *testEnv {
	if len(doctors) == 0 {
		doctors = []*models.Doctor{testDoctor()}
	}
	schedules := newFakeScheduleRepo()
	appts := newFakeAppointmentRepo()
	docs := newFakeDoctorRepo(doctors...)
	return &testEnv{
		svc: &DefaultAppointmentService{
			Doctors:      docs,
			Schedules:    schedules,
			Appointments: appts,
		},
		schedules: schedules,
		appts:     appts,
		doctors:   docs,
	}
}

func futureDate(daysAhead int) string {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Format("2006-01-02")
}

func bookReq(date, slotTime string) BookSlotRequest {
	return BookSlotRequest{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		Date:      date,
		Time:      slotTime,
		Type:      models.ConsultationVideo,
	}
}

func TestBookSlotSuccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	appt, err := env.svc.BookSlot(ctx, bookReq(date, "09:30"))
	require.NoError(t, err)
	require.NotNil(t, appt)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "pat-1", appt.PatientID)
	assert.Equal(t, "doc-1", appt.DoctorID)
	assert.Equal(t, models.AppointmentBooked, appt.Status)
	assert.Equal(t, models.PaymentPending, appt.PaymentStatus)
	assert.Equal(t, date, appt.Date)
	assert.Equal(t, "09:30", appt.StartTime)
	assert.Equal(t, "10:00", appt.EndTime)
	assert.Equal(t, 50.0, appt.Fee)

	want, err := DeriveScheduledAt(date, "09:30")
	require.NoError(t, err)
	assert.Equal(t, want, appt.ScheduledAt)

	sched, err := env.schedules.GetDaySchedule(ctx, "doc-1", date)
	require.NoError(t, err)
	require.NotNil(t, sched)
	require.Len(t, sched.BookedSlots, 1)
	assert.Equal(t, appt.ID, sched.BookedSlots[0].AppointmentID)
	assert.Equal(t, "09:30", sched.BookedSlots[0].Time)

	stored, err := env.appts.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, appt.ID, stored.ID)
}

func TestBookSlotInPersonBilledAtVideoRate(t *testing.T) {
	env := newTestEnv()
	req := bookReq(futureDate(7), "09:00")
	req.Type = models.ConsultationInPerson

	appt, err := env.svc.BookSlot(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 50.0, appt.Fee)
}

func TestBookSlotConcurrentSingleWinner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	const attempts = 32
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = env.svc.BookSlot(ctx, bookReq(date, "10:00"))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		default:
			var conflict ConflictError
			require.ErrorAs(t, err, &conflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflicts)

	sched, err := env.schedules.GetDaySchedule(ctx, "doc-1", date)
	require.NoError(t, err)
	require.Len(t, sched.BookedSlots, 1)
}

func TestBookSlotValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	tests := []struct {
		name  string
		req   BookSlotRequest
		field string
	}{
		{"missing patient", BookSlotRequest{DoctorID: "doc-1", Date: date, Time: "09:00", Type: "chat"}, "patientId"},
		{"missing doctor", BookSlotRequest{PatientID: "pat-1", Date: date, Time: "09:00", Type: "chat"}, "doctorId"},
		{"bad date", BookSlotRequest{PatientID: "pat-1", DoctorID: "doc-1", Date: "14/09/2026", Time: "09:00", Type: "chat"}, "date"},
		{"bad time", BookSlotRequest{PatientID: "pat-1", DoctorID: "doc-1", Date: date, Time: "9am", Type: "chat"}, "time"},
		{"bad type", BookSlotRequest{PatientID: "pat-1", DoctorID: "doc-1", Date: date, Time: "09:00", Type: "telepathy"}, "type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.BookSlot(ctx, tc.req)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestBookSlotUnknownDoctor(t *testing.T) {
	env := newTestEnv()
	req := bookReq(futureDate(7), "09:00")
	req.DoctorID = "doc-unknown"

	_, err := env.svc.BookSlot(context.Background(), req)
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "doctor", nf.Resource)
}

func TestBookSlotRejectsPastSlot(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.BookSlot(context.Background(), bookReq(futureDate(-1), "09:00"))
	var past PastSlotError
	require.ErrorAs(t, err, &past)

	sched, _ := env.schedules.GetDaySchedule(context.Background(), "doc-1", futureDate(-1))
	require.NotNil(t, sched)
	assert.Empty(t, sched.BookedSlots)
}

func TestBookSlotRejectsNonBaseTime(t *testing.T) {
	env := newTestEnv()

	// 09:10 is well-formed but was never generated for a 30-minute grid.
	_, err := env.svc.BookSlot(context.Background(), bookReq(futureDate(7), "09:10"))
	var conflict ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestBookSlotBlocksAcrossConsultationTypes(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	first := bookReq(date, "09:00")
	first.Type = models.ConsultationVideo
	_, err := env.svc.BookSlot(ctx, first)
	require.NoError(t, err)

	second := bookReq(date, "09:00")
	second.Type = models.ConsultationChat
	second.PatientID = "pat-2"
	_, err = env.svc.BookSlot(ctx, second)
	var conflict ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestBookSlotReleasesReservationWhenCreateFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	env.appts.failCreate = true
	_, err := env.svc.BookSlot(ctx, bookReq(date, "09:30"))
	require.Error(t, err)

	sched, err := env.schedules.GetDaySchedule(ctx, "doc-1", date)
	require.NoError(t, err)
	assert.Empty(t, sched.BookedSlots, "compensation must hand the slot back")

	env.appts.failCreate = false
	appt, err := env.svc.BookSlot(ctx, bookReq(date, "09:30"))
	require.NoError(t, err)
	assert.Equal(t, "09:30", appt.StartTime)
}

func TestBookSlotSurfacesCompensationFailure(t *testing.T) {
	env := newTestEnv()
	env.appts.failCreate = true
	env.schedules.failRelease = true

	_, err := env.svc.BookSlot(context.Background(), bookReq(futureDate(7), "09:30"))
	var comp CompensationError
	require.ErrorAs(t, err, &comp)
	assert.Equal(t, "doc-1", comp.DoctorID)
	assert.NotNil(t, errors.Unwrap(comp))
}

func TestGetAvailabilityMaterializesScheduleOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	first, err := env.svc.GetAvailability(ctx, "doc-1", date, "")
	require.NoError(t, err)
	second, err := env.svc.GetAvailability(ctx, "doc-1", date, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, env.schedules.ensureCalls)
}

func TestGetAvailabilityExcludesBookedTimesForEveryType(t *testing.T) {
	doctor := testDoctor()
	doctor.Availability = models.AvailabilityWindow{From: "09:00", To: "09:45"}
	doctor.SlotDurationMinutes = 15
	env := newTestEnv(doctor)
	ctx := context.Background()
	date := futureDate(7)

	booked := bookReq(date, "09:15")
	booked.Type = models.ConsultationVideo
	_, err := env.svc.BookSlot(ctx, booked)
	require.NoError(t, err)

	avail, err := env.svc.GetAvailability(ctx, "doc-1", date, models.ConsultationChat)
	require.NoError(t, err)

	times := make([]string, 0, len(avail.Slots))
	for _, s := range avail.Slots {
		assert.Equal(t, models.ConsultationChat, s.Type)
		assert.Equal(t, 20.0, s.Fee)
		times = append(times, s.Time)
	}
	assert.Equal(t, []string{"09:00", "09:30"}, times)
}

func TestGetAvailabilityUnshapedListsAllTypesPerSlot(t *testing.T) {
	doctor := testDoctor()
	doctor.Availability = models.AvailabilityWindow{From: "09:00", To: "09:45"}
	doctor.SlotDurationMinutes = 15
	env := newTestEnv(doctor)

	avail, err := env.svc.GetAvailability(context.Background(), "doc-1", futureDate(7), "")
	require.NoError(t, err)
	assert.Len(t, avail.Slots, 3*len(consultationTypes))
}

func TestGetAvailabilityNoWindowConfigured(t *testing.T) {
	doctor := testDoctor()
	doctor.Availability = models.AvailabilityWindow{}
	env := newTestEnv(doctor)

	_, err := env.svc.GetAvailability(context.Background(), "doc-1", futureDate(7), "")
	var cfg ConfigurationError
	require.ErrorAs(t, err, &cfg)
}

func TestGetAvailabilityUnknownDoctor(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.GetAvailability(context.Background(), "doc-missing", futureDate(7), "")
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCancelAppointmentReleasesSlot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	appt, err := env.svc.BookSlot(ctx, bookReq(date, "10:00"))
	require.NoError(t, err)

	cancelled, err := env.svc.CancelAppointment(ctx, appt.ID, "pat-1", "feeling better")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
	assert.Equal(t, "feeling better", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)

	sched, err := env.schedules.GetDaySchedule(ctx, "doc-1", date)
	require.NoError(t, err)
	assert.Empty(t, sched.BookedSlots)

	// The freed slot is immediately bookable again.
	rebook := bookReq(date, "10:00")
	rebook.PatientID = "pat-2"
	again, err := env.svc.BookSlot(ctx, rebook)
	require.NoError(t, err)
	assert.NotEqual(t, appt.ID, again.ID)
}

func TestCancelAppointmentByDoctor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.BookSlot(ctx, bookReq(futureDate(7), "10:00"))
	require.NoError(t, err)

	cancelled, err := env.svc.CancelAppointment(ctx, appt.ID, "doc-1", "emergency")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
}

func TestCancelAppointmentTwice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.BookSlot(ctx, bookReq(futureDate(7), "10:00"))
	require.NoError(t, err)
	_, err = env.svc.CancelAppointment(ctx, appt.ID, "pat-1", "")
	require.NoError(t, err)

	_, err = env.svc.CancelAppointment(ctx, appt.ID, "pat-1", "")
	var state InvalidStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, models.AppointmentCancelled, state.Status)
}

func TestCancelAppointmentForbidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.BookSlot(ctx, bookReq(futureDate(7), "10:00"))
	require.NoError(t, err)

	_, err = env.svc.CancelAppointment(ctx, appt.ID, "someone-else", "")
	var forbidden ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}

func TestCancelAppointmentNotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.CancelAppointment(context.Background(), "nope", "pat-1", "")
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestRescheduleAppointment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	oldDate, newDate := futureDate(7), futureDate(8)

	appt, err := env.svc.BookSlot(ctx, bookReq(oldDate, "10:00"))
	require.NoError(t, err)

	moved, err := env.svc.RescheduleAppointment(ctx, appt.ID, "pat-1", newDate, "11:00")
	require.NoError(t, err)
	assert.Equal(t, appt.ID, moved.ID)
	assert.Equal(t, newDate, moved.Date)
	assert.Equal(t, "11:00", moved.StartTime)
	assert.Equal(t, "11:30", moved.EndTime)
	assert.Equal(t, appt.Fee, moved.Fee)
	assert.Equal(t, models.AppointmentBooked, moved.Status)

	oldSched, err := env.schedules.GetDaySchedule(ctx, "doc-1", oldDate)
	require.NoError(t, err)
	assert.Empty(t, oldSched.BookedSlots)

	newSched, err := env.schedules.GetDaySchedule(ctx, "doc-1", newDate)
	require.NoError(t, err)
	require.Len(t, newSched.BookedSlots, 1)
	assert.Equal(t, appt.ID, newSched.BookedSlots[0].AppointmentID)
}

func TestRescheduleConflictLeavesOriginalUntouched(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	first, err := env.svc.BookSlot(ctx, bookReq(date, "10:00"))
	require.NoError(t, err)

	blocker := bookReq(date, "11:00")
	blocker.PatientID = "pat-2"
	_, err = env.svc.BookSlot(ctx, blocker)
	require.NoError(t, err)

	_, err = env.svc.RescheduleAppointment(ctx, first.ID, "pat-1", date, "11:00")
	var conflict ConflictError
	require.ErrorAs(t, err, &conflict)

	stored, err := env.appts.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", stored.StartTime)
	assert.Equal(t, date, stored.Date)
	assert.Equal(t, models.AppointmentBooked, stored.Status)

	sched, err := env.schedules.GetDaySchedule(ctx, "doc-1", date)
	require.NoError(t, err)
	assert.Len(t, sched.BookedSlots, 2)
}

func TestRescheduleValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.BookSlot(ctx, bookReq(futureDate(7), "10:00"))
	require.NoError(t, err)

	_, err = env.svc.RescheduleAppointment(ctx, appt.ID, "pat-1", "next tuesday", "11:00")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = env.svc.RescheduleAppointment(ctx, appt.ID, "pat-1", futureDate(8), "11am")
	require.ErrorAs(t, err, &verr)
}

func TestRescheduleCancelledAppointment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.BookSlot(ctx, bookReq(futureDate(7), "10:00"))
	require.NoError(t, err)
	_, err = env.svc.CancelAppointment(ctx, appt.ID, "pat-1", "")
	require.NoError(t, err)

	_, err = env.svc.RescheduleAppointment(ctx, appt.ID, "pat-1", futureDate(8), "11:00")
	var state InvalidStateError
	require.ErrorAs(t, err, &state)
}

func TestRescheduleReleasesNewSlotWhenUpdateFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	appt, err := env.svc.BookSlot(ctx, bookReq(date, "10:00"))
	require.NoError(t, err)

	env.appts.failUpdate = true
	_, err = env.svc.RescheduleAppointment(ctx, appt.ID, "pat-1", date, "11:00")
	require.Error(t, err)

	sched, err := env.schedules.GetDaySchedule(ctx, "doc-1", date)
	require.NoError(t, err)
	require.Len(t, sched.BookedSlots, 1)
	assert.Equal(t, "10:00", sched.BookedSlots[0].Time)
}

func TestCompleteAppointment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.BookSlot(ctx, bookReq(futureDate(7), "10:00"))
	require.NoError(t, err)

	done, err := env.svc.CompleteAppointment(ctx, appt.ID, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, done.Status)

	// The patient cannot complete, and completed is terminal.
	_, err = env.svc.CompleteAppointment(ctx, appt.ID, "pat-1")
	var forbidden ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	_, err = env.svc.CompleteAppointment(ctx, appt.ID, "doc-1")
	var state InvalidStateError
	require.ErrorAs(t, err, &state)
}

func TestGetAppointmentVisibility(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	appt, err := env.svc.BookSlot(ctx, bookReq(futureDate(7), "10:00"))
	require.NoError(t, err)

	for _, requester := range []string{"pat-1", "doc-1"} {
		got, err := env.svc.GetAppointment(ctx, appt.ID, requester)
		require.NoError(t, err)
		assert.Equal(t, appt.ID, got.ID)
	}

	_, err = env.svc.GetAppointment(ctx, appt.ID, "stranger")
	var forbidden ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	_, err = env.svc.GetAppointment(ctx, "missing", "pat-1")
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestListPatientAppointments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	date := futureDate(7)

	_, err := env.svc.BookSlot(ctx, bookReq(date, "09:00"))
	require.NoError(t, err)
	_, err = env.svc.BookSlot(ctx, bookReq(date, "10:30"))
	require.NoError(t, err)

	appts, err := env.svc.ListPatientAppointments(ctx, "pat-1")
	require.NoError(t, err)
	assert.Len(t, appts, 2)

	none, err := env.svc.ListPatientAppointments(ctx, "pat-unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}
