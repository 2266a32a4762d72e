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
	"github.com/stretchr/testify/suite"

	"github.com/blogem/intern-timetracker/geolocation"
	"github.com/blogem/intern-timetracker/identity"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/repositories/mocks"
)

// Thursday 15 October 2026
var thursday = time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC)

func defaultActiveDays() []models.ClockDay {
	return []models.ClockDay{
		{ID: 1, DayOfWeek: 0, Active: true},
		{ID: 2, DayOfWeek: 1, Active: true},
		{ID: 3, DayOfWeek: 2, Active: true},
		{ID: 4, DayOfWeek: 3, Active: true},
	}
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) PublishTimeLog(ctx context.Context, log *models.TimeLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *publisherMock) PublishAbsence(ctx context.Context, absence *models.AbsenceLog) error {
	return m.Called(ctx, absence).Error(0)
}

// RecordTestSuite covers the clock-in/out flow
type RecordTestSuite struct {
	suite.Suite
	now          time.Time
	service      TimeLogService
	mockLogRepo  *mocks.MockTimeLogRepository
	mockDayRepo  *mocks.MockClockDayRepository
	appended     []*models.TimeLog
	validUser    models.UserInfo
	goodLocation geolocation.Locator
}

// SetupTest sets up the test suite before each test
func (suite *RecordTestSuite) SetupTest() {
	suite.now = thursday
	suite.mockLogRepo = mocks.NewMockTimeLogRepository(suite.T())
	suite.mockDayRepo = mocks.NewMockClockDayRepository(suite.T())
	suite.appended = nil
	suite.validUser = models.UserInfo{FirstName: "Ada", LastName: "Lovelace", EmployeeID: "S1", DeviceName: "Laptop"}
	suite.goodLocation = geolocation.Reported{Position: &geolocation.Position{Latitude: 52.37, Longitude: 4.89, Accuracy: 12}}

	opts := Options{
		Location: time.UTC,
		Now:      func() time.Time { return suite.now },
	}
	suite.service = NewTimeLogService(suite.mockLogRepo, NewClockDayService(suite.mockDayRepo, opts), opts)
}

func (suite *RecordTestSuite) expectWeekdayCheck() {
	suite.mockDayRepo.On("GetActiveDays", mock.Anything).Return(defaultActiveDays(), nil).Once()
}

func (suite *RecordTestSuite) expectAppend() {
	suite.mockLogRepo.On("Append", mock.Anything, mock.AnythingOfType("*models.TimeLog")).
		Run(func(args mock.Arguments) {
			suite.appended = append(suite.appended, args.Get(1).(*models.TimeLog))
		}).
		Return(nil).Once()
}

func (suite *RecordTestSuite) record(action models.Action, locator geolocation.Locator) (*ClockResult, error) {
	return suite.service.Record(context.Background(), ClockRequest{
		User:    suite.validUser,
		Action:  action,
		Signals: identity.Signals{UserAgent: "Mozilla/5.0", Languages: []string{"en-US"}, TimezoneOffset: -120, ScreenHeight: 1080, ScreenWidth: 1920},
		Locator: locator,
	})
}

// TestRecord_ClockIn tests the happy path for a check-in
func (suite *RecordTestSuite) TestRecord_ClockIn() {
	suite.expectWeekdayCheck()
	suite.expectAppend()

	result, err := suite.record(models.ActionIn, suite.goodLocation)

	require.NoError(suite.T(), err)
	require.Len(suite.T(), suite.appended, 1)
	log := suite.appended[0]

	assert.Same(suite.T(), log, result.Log)
	assert.NotEmpty(suite.T(), log.ID)
	assert.Equal(suite.T(), models.ActionIn, log.Action)
	assert.Equal(suite.T(), suite.validUser, log.UserInfo)
	assert.Equal(suite.T(), suite.now.UnixMilli(), log.RawTimestamp)
	assert.Equal(suite.T(), "10/15/2026, 10:30:00 AM", log.Timestamp)
	assert.Equal(suite.T(), 52.37, *log.Latitude)
	assert.Equal(suite.T(), 12.0, *log.Accuracy)
	assert.Len(suite.T(), log.DeviceID, 64)
	assert.Equal(suite.T(), "Mozilla/5.0", log.UserAgent)
	assert.Empty(suite.T(), log.Duration, "check-ins never carry a duration")

	assert.Nil(suite.T(), result.LocationError)
	assert.Equal(suite.T(), models.StatusSuccess, result.Status.Type)
	assert.Equal(suite.T(), "Successfully Clocked IN", result.Status.Title)
	assert.Equal(suite.T(), "Your location has been recorded at 10:30:00 AM.", result.Status.Details)
	assert.Equal(suite.T(), int64(5000), result.Status.DismissAfterMs)
}

// TestRecord_ClockOutComputesDuration tests a check-out ninety minutes after a same-day check-in
func (suite *RecordTestSuite) TestRecord_ClockOutComputesDuration() {
	checkIn := models.TimeLog{UserInfo: suite.validUser, Action: models.ActionIn, RawTimestamp: suite.now.Add(-90 * time.Minute).UnixMilli()}
	yesterday := checkIn
	yesterday.RawTimestamp = suite.now.Add(-24 * time.Hour).UnixMilli()

	suite.expectWeekdayCheck()
	suite.mockLogRepo.On("GetByEmployee", mock.Anything, "S1").Return([]models.TimeLog{yesterday, checkIn}, nil).Once()
	suite.expectAppend()

	result, err := suite.record(models.ActionOut, suite.goodLocation)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "1 hours, 30 minutes", result.Log.Duration)
	assert.Equal(suite.T(), "Successfully Clocked OUT", result.Status.Title)
	assert.Contains(suite.T(), result.Status.Details, "Today's total time: 1 hours, 30 minutes.")
}

// TestRecord_ClockOutUsesLatestCheckIn tests that the latest same-day IN wins regardless of store order
func (suite *RecordTestSuite) TestRecord_ClockOutUsesLatestCheckIn() {
	at := func(d time.Duration, device string) models.TimeLog {
		return models.TimeLog{
			UserInfo:     models.UserInfo{EmployeeID: "S1", DeviceName: device},
			Action:       models.ActionIn,
			RawTimestamp: suite.now.Add(-d).UnixMilli(),
		}
	}
	logs := []models.TimeLog{at(3*time.Hour, "a"), at(45*time.Minute, "b"), at(2*time.Hour, "c")}

	suite.expectWeekdayCheck()
	suite.mockLogRepo.On("GetByEmployee", mock.Anything, "S1").Return(logs, nil).Once()
	suite.expectAppend()

	result, err := suite.record(models.ActionOut, suite.goodLocation)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "0 hours, 45 minutes", result.Log.Duration)
}

// TestRecord_ClockOutWithoutCheckIn tests that no duration is derived without a same-day IN
func (suite *RecordTestSuite) TestRecord_ClockOutWithoutCheckIn() {
	earlierOut := models.TimeLog{UserInfo: models.UserInfo{EmployeeID: "S1"}, Action: models.ActionOut, RawTimestamp: suite.now.Add(-time.Hour).UnixMilli()}

	suite.expectWeekdayCheck()
	suite.mockLogRepo.On("GetByEmployee", mock.Anything, "S1").Return([]models.TimeLog{earlierOut}, nil).Once()
	suite.expectAppend()

	result, err := suite.record(models.ActionOut, suite.goodLocation)

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), result.Log.Duration)
	assert.NotContains(suite.T(), result.Status.Details, "Today's total time")
}

// TestRecord_ClockOutAtSameInstant tests that zero elapsed time leaves the duration unset
func (suite *RecordTestSuite) TestRecord_ClockOutAtSameInstant() {
	sameInstant := models.TimeLog{UserInfo: models.UserInfo{EmployeeID: "S1"}, Action: models.ActionIn, RawTimestamp: suite.now.UnixMilli()}

	suite.expectWeekdayCheck()
	suite.mockLogRepo.On("GetByEmployee", mock.Anything, "S1").Return([]models.TimeLog{sameInstant}, nil).Once()
	suite.expectAppend()

	result, err := suite.record(models.ActionOut, suite.goodLocation)

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), result.Log.Duration)
}

// TestRecord_ClockOutAfterMidnight tests that an IN from the previous local date is ignored
func (suite *RecordTestSuite) TestRecord_ClockOutAfterMidnight() {
	suite.now = time.Date(2026, 10, 15, 0, 10, 0, 0, time.UTC)
	lateIn := models.TimeLog{UserInfo: models.UserInfo{EmployeeID: "S1"}, Action: models.ActionIn, RawTimestamp: suite.now.Add(-20 * time.Minute).UnixMilli()}

	suite.expectWeekdayCheck()
	suite.mockLogRepo.On("GetByEmployee", mock.Anything, "S1").Return([]models.TimeLog{lateIn}, nil).Once()
	suite.expectAppend()

	result, err := suite.record(models.ActionOut, suite.goodLocation)

	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), result.Log.Duration)
}

// TestRecord_MissingInformation tests that incomplete identity is rejected before anything else
func (suite *RecordTestSuite) TestRecord_MissingInformation() {
	for _, user := range []models.UserInfo{
		{FirstName: "", LastName: "Lovelace", EmployeeID: "S1"},
		{FirstName: "Ada", LastName: "   ", EmployeeID: "S1"},
		{FirstName: "Ada", LastName: "Lovelace", EmployeeID: ""},
	} {
		suite.validUser = user
		_, err := suite.record(models.ActionIn, suite.goodLocation)

		var verr *models.ValidationError
		require.True(suite.T(), errors.As(err, &verr), "expected validation error for %+v", user)
		assert.Equal(suite.T(), models.TitleMissingInformation, verr.Title)
	}
	assert.Empty(suite.T(), suite.appended)
}

// TestRecord_OverlongNameIsNotMissing tests that a too-long field gets its own title
func (suite *RecordTestSuite) TestRecord_OverlongNameIsNotMissing() {
	suite.validUser.LastName = strings.Repeat("x", 101)
	_, err := suite.record(models.ActionIn, suite.goodLocation)

	var verr *models.ValidationError
	require.True(suite.T(), errors.As(err, &verr))
	assert.Equal(suite.T(), models.TitleInvalidInformation, verr.Title)
	assert.Equal(suite.T(), []string{"Last name must be at most 100 characters"}, verr.Messages)
	assert.Empty(suite.T(), suite.appended)
}

// TestRecord_RejectedWeekdays tests Friday, Saturday and Sunday for both actions
func (suite *RecordTestSuite) TestRecord_RejectedWeekdays() {
	for _, day := range []time.Time{
		time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), // Friday
		time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), // Saturday
		time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), // Sunday
	} {
		for _, action := range []models.Action{models.ActionIn, models.ActionOut} {
			suite.now = day
			suite.expectWeekdayCheck()

			_, err := suite.record(action, suite.goodLocation)

			var violation *models.ScheduleViolation
			require.True(suite.T(), errors.As(err, &violation), "expected schedule violation on %s", day.Weekday())
			assert.Equal(suite.T(), day.Weekday(), violation.Weekday)
			assert.Equal(suite.T(), "Check-in and check-out are only allowed Monday-Thursday.", violation.Details())
		}
	}
	assert.Empty(suite.T(), suite.appended)
}

// TestRecord_WeekdayGateDoesNotWaitForLocation tests that a rejected day never consults the locator
func (suite *RecordTestSuite) TestRecord_WeekdayGateDoesNotWaitForLocation() {
	suite.now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	suite.expectWeekdayCheck()

	called := false
	locator := locatorFunc(func(ctx context.Context, opts geolocation.Options) (*geolocation.Position, error) {
		called = true
		return nil, nil
	})

	_, err := suite.record(models.ActionIn, locator)
	assert.Error(suite.T(), err)
	assert.False(suite.T(), called)
}

// TestRecord_LocationFailureStillAppends tests the degraded record on geolocation failure
func (suite *RecordTestSuite) TestRecord_LocationFailureStillAppends() {
	failures := []geolocation.Locator{
		nil, // unsupported
		geolocation.Reported{Failure: geolocation.FailurePermissionDenied},
		geolocation.Reported{Failure: geolocation.FailureTimeout},
		geolocation.Reported{Failure: geolocation.FailurePositionUnavailable},
	}
	for _, locator := range failures {
		suite.expectWeekdayCheck()
		suite.expectAppend()

		result, err := suite.record(models.ActionIn, locator)

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), result.LocationError)
		assert.Nil(suite.T(), result.Log.Latitude)
		assert.Nil(suite.T(), result.Log.Longitude)
		assert.Nil(suite.T(), result.Log.Accuracy)
		assert.Equal(suite.T(), models.StatusError, result.Status.Type)
		assert.Equal(suite.T(), models.TitleLocationError, result.Status.Title)
	}
	assert.Len(suite.T(), suite.appended, len(failures))
}

// TestRecord_StoreFailure tests that a failed append is reported as an error
func (suite *RecordTestSuite) TestRecord_StoreFailure() {
	suite.expectWeekdayCheck()
	suite.mockLogRepo.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	result, err := suite.record(models.ActionIn, suite.goodLocation)

	assert.Nil(suite.T(), result)
	assert.ErrorContains(suite.T(), err, "disk full")
}

// TestRecord_UnknownAction tests that only IN and OUT are accepted
func (suite *RecordTestSuite) TestRecord_UnknownAction() {
	_, err := suite.record(models.Action("BREAK"), suite.goodLocation)
	assert.Error(suite.T(), err)
}

// TestRecord_PublishesAfterAppend tests that the webhook sees the appended record without holding up the response
func (suite *RecordTestSuite) TestRecord_PublishesAfterAppend() {
	publisher := &publisherMock{}
	publisher.Test(suite.T())
	opts := Options{Location: time.UTC, Now: func() time.Time { return suite.now }, Publisher: publisher}
	suite.service = NewTimeLogService(suite.mockLogRepo, NewClockDayService(suite.mockDayRepo, opts), opts)

	suite.expectWeekdayCheck()
	suite.expectAppend()

	release := make(chan struct{})
	published := make(chan *models.TimeLog, 1)
	var publishCtx context.Context
	publisher.On("PublishTimeLog", mock.Anything, mock.AnythingOfType("*models.TimeLog")).
		Run(func(args mock.Arguments) {
			<-release
			publishCtx = args.Get(0).(context.Context)
			published <- args.Get(1).(*models.TimeLog)
		}).
		Return(errors.New("not added")).Once()

	ctx, cancel := context.WithCancel(context.Background())
	result, err := suite.service.Record(ctx, ClockRequest{User: suite.validUser, Action: models.ActionIn, Locator: suite.goodLocation})
	cancel()

	// Record returned while the webhook was still blocked
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), result.Log)
	close(release)

	select {
	case log := <-published:
		assert.Equal(suite.T(), result.Log.ID, log.ID)
		assert.NoError(suite.T(), publishCtx.Err())
	case <-time.After(5 * time.Second):
		suite.T().Fatal("webhook was never called")
	}
	publisher.AssertExpectations(suite.T())
}

// Run the test suite
func TestRecordTestSuite(t *testing.T) {
	suite.Run(t, new(RecordTestSuite))
}

type locatorFunc func(ctx context.Context, opts geolocation.Options) (*geolocation.Position, error)

func (f locatorFunc) CurrentPosition(ctx context.Context, opts geolocation.Options) (*geolocation.Position, error) {
	return f(ctx, opts)
}
