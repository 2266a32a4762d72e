package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories/mocks"
)

func newAbsenceService(t *testing.T) (AbsenceService, *mocks.MockAbsenceLogRepository) {
	repo := mocks.NewMockAbsenceLogRepository(t)
	service := NewAbsenceService(repo, Options{Location: time.UTC, Now: func() time.Time { return thursday }})
	return service, repo
}

func TestLogAbsence(t *testing.T) {
	service, repo := newAbsenceService(t)

	var appended *models.AbsenceLog
	repo.On("Append", mock.Anything, mock.AnythingOfType("*models.AbsenceLog")).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*models.AbsenceLog) }).
		Return(nil).Once()

	user := models.UserInfo{FirstName: "Ada", LastName: "Lovelace", EmployeeID: "S1"}
	result, err := service.LogAbsence(context.Background(), user, models.AbsenceForm{Date: "2026-10-16", Reason: " Doctor's appointment "})

	require.NoError(t, err)
	require.NotNil(t, appended)
	assert.Same(t, appended, result.Absence)
	assert.NotEmpty(t, appended.ID)
	assert.Equal(t, user, appended.UserInfo)
	assert.Equal(t, "2026-10-16", appended.Date)
	assert.Equal(t, "Doctor's appointment", appended.Reason)
	assert.Equal(t, "10/15/2026, 10:30:00 AM", appended.Submitted)
	assert.Equal(t, thursday.UnixMilli(), appended.SubmittedAt)

	assert.Equal(t, models.TitleAbsenceLogged, result.Status.Title)
	assert.Equal(t, "Your absence for 2026-10-16 has been recorded.", result.Status.Details)
}

func TestLogAbsence_Rejections(t *testing.T) {
	valid := models.UserInfo{FirstName: "Ada", LastName: "Lovelace", EmployeeID: "S1"}

	tests := []struct {
		name  string
		user  models.UserInfo
		form  models.AbsenceForm
		title string
	}{
		{"missing identity wins over missing fields", models.UserInfo{FirstName: "Ada"}, models.AbsenceForm{}, models.TitleMissingInformation},
		{"missing date", valid, models.AbsenceForm{Reason: "Sick"}, models.TitleMissingFields},
		{"missing reason", valid, models.AbsenceForm{Date: "2026-10-16", Reason: "   "}, models.TitleMissingFields},
		{"bad date", valid, models.AbsenceForm{Date: "16-10-2026", Reason: "Sick"}, models.TitleMissingFields},
		{"reason too long", valid, models.AbsenceForm{Date: "2026-10-16", Reason: strings.Repeat("x", 101)}, models.TitleMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newAbsenceService(t)

			_, err := service.LogAbsence(context.Background(), tt.user, tt.form)

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.title, verr.Title)
		})
	}
}

func TestLogAbsence_PublishesInBackground(t *testing.T) {
	repo := mocks.NewMockAbsenceLogRepository(t)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*models.AbsenceLog")).Return(nil).Once()

	publisher := &publisherMock{}
	publisher.Test(t)
	release := make(chan struct{})
	published := make(chan *models.AbsenceLog, 1)
	publisher.On("PublishAbsence", mock.Anything, mock.AnythingOfType("*models.AbsenceLog")).
		Run(func(args mock.Arguments) {
			<-release
			published <- args.Get(1).(*models.AbsenceLog)
		}).
		Return(nil).Once()

	service := NewAbsenceService(repo, Options{Location: time.UTC, Now: func() time.Time { return thursday }, Publisher: publisher})
	user := models.UserInfo{FirstName: "Ada", LastName: "Lovelace", EmployeeID: "S1"}
	result, err := service.LogAbsence(context.Background(), user, models.AbsenceForm{Date: "2026-10-16", Reason: "Sick"})
	require.NoError(t, err)
	close(release)

	select {
	case absence := <-published:
		assert.Equal(t, result.Absence.ID, absence.ID)
		assert.Equal(t, "Sick", absence.Reason)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was never called")
	}
	publisher.AssertExpectations(t)
}

func TestGetAbsences(t *testing.T) {
	service, repo := newAbsenceService(t)
	repo.On("GetByEmployee", mock.Anything, "S1").Return([]models.AbsenceLog{{Date: "2026-10-16"}}, nil).Once()

	absences, err := service.GetAbsences(context.Background(), "S1")
	require.NoError(t, err)
	assert.Len(t, absences, 1)

	_, err = service.GetAbsences(context.Background(), "")
	assert.Error(t, err)
}
