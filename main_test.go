package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/intern-timetracker/authenticator"
	"github.com/blogem/intern-timetracker/config"
	"github.com/blogem/intern-timetracker/models"
)

type statusBody struct {
	Status models.StatusMessage `json:"status"`
	Log    *models.TimeLog      `json:"log"`
}

// RouterTestSuite drives the HTTP surface end to end against a temporary database
type RouterTestSuite struct {
	suite.Suite
	now    time.Time
	app    *app
	server *httptest.Server
	client *http.Client
}

func (s *RouterTestSuite) SetupTest() {
	s.now = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) // Thursday
	orig := clock
	clock = func() time.Time { return s.now }
	s.T().Cleanup(func() { clock = orig })

	hash, err := authenticator.HashPassword("correct horse")
	s.Require().NoError(err)

	cfg := &config.Config{
		Port:         "0",
		DatabasePath: filepath.Join(s.T().TempDir(), "test.db"),
		Location:     time.UTC,
		Admin:        config.AdminConfig{Username: "admin", PasswordHash: hash},
		Policy:       config.DefaultPolicy(),
	}

	s.app, err = newApp(context.Background(), cfg)
	s.Require().NoError(err)

	r, err := setupRouter(s.app)
	s.Require().NoError(err)
	s.server = httptest.NewServer(r)

	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.client = &http.Client{Jar: jar, CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

	s.T().Cleanup(func() {
		s.server.Close()
		s.app.Close()
	})
}

func (s *RouterTestSuite) do(method, path string, body interface{}) *http.Response {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (test)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *RouterTestSuite) storedLogs() []models.TimeLog {
	logs, err := s.app.repos.TimeLogs.GetAll(context.Background())
	s.Require().NoError(err)
	return logs
}

func (s *RouterTestSuite) decode(resp *http.Response) statusBody {
	var body statusBody
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return body
}

var ada = map[string]interface{}{"firstName": "Ada", "lastName": "Lovelace", "employeeId": "S1", "deviceName": "Laptop"}

var amsterdam = map[string]interface{}{"latitude": 52.37, "longitude": 4.89, "accuracy": 12}

func (s *RouterTestSuite) TestHealthAndMetrics() {
	resp := s.do(http.MethodGet, "/health", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodGet, "/metrics", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
}

func (s *RouterTestSuite) TestClockInOutAndTimesheet() {
	resp := s.do(http.MethodPut, "/me", ada)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	// The session supplies the user info
	resp = s.do(http.MethodPost, "/time/in", map[string]interface{}{"location": amsterdam})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	body := s.decode(resp)
	assert.Equal(s.T(), "Successfully Clocked IN", body.Status.Title)
	assert.Equal(s.T(), "S1", body.Log.EmployeeID)
	assert.Equal(s.T(), "Mozilla/5.0 (test)", body.Log.UserAgent)
	assert.Len(s.T(), body.Log.DeviceID, 64)

	s.now = s.now.Add(90 * time.Minute)
	resp = s.do(http.MethodPost, "/time/out", map[string]interface{}{"location": amsterdam})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	body = s.decode(resp)
	assert.Equal(s.T(), "1 hours, 30 minutes", body.Log.Duration)
	assert.Contains(s.T(), body.Status.Details, "Today's total time: 1 hours, 30 minutes.")

	resp = s.do(http.MethodGet, "/timesheet/S1", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var sheet struct {
		Logs []models.TimeLog `json:"logs"`
	}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&sheet))
	require.Len(s.T(), sheet.Logs, 2)
	assert.Equal(s.T(), models.ActionOut, sheet.Logs[0].Action)
	assert.Equal(s.T(), models.ActionIn, sheet.Logs[1].Action)

	resp = s.do(http.MethodGet, "/timesheet/S1/pdf", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.Equal(s.T(), "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(s.T(), resp.Header.Get("Content-Disposition"), `filename="A_Lovelace_2026-10-15_10-30-00.pdf"`)
}

func (s *RouterTestSuite) TestClockRejections() {
	resp := s.do(http.MethodPost, "/time/in", map[string]interface{}{"firstName": "Ada"})
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Equal(s.T(), models.TitleMissingInformation, s.decode(resp).Status.Title)

	s.now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) // Saturday
	resp = s.do(http.MethodPost, "/time/in", ada)
	assert.Equal(s.T(), http.StatusForbidden, resp.StatusCode)
	body := s.decode(resp)
	assert.Equal(s.T(), models.TitleNotAllowed, body.Status.Title)
	assert.Equal(s.T(), "Check-in and check-out are only allowed Monday-Thursday.", body.Status.Details)
	assert.Equal(s.T(), int64(5000), body.Status.DismissAfterMs)

	resp = s.do(http.MethodPost, "/time/break", ada)
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)

	assert.Empty(s.T(), s.storedLogs())
}

func (s *RouterTestSuite) TestClockWithLocationFailure() {
	req := map[string]interface{}{"locationError": map[string]string{"code": "1", "message": "User denied Geolocation"}}
	for k, v := range ada {
		req[k] = v
	}

	resp := s.do(http.MethodPost, "/time/in", req)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	body := s.decode(resp)
	assert.Equal(s.T(), models.TitleLocationError, body.Status.Title)
	assert.Nil(s.T(), body.Log.Latitude)

	assert.Len(s.T(), s.storedLogs(), 1)
}

func (s *RouterTestSuite) TestLocationFreshnessIgnoresClientClockSkew() {
	// The browser clock runs an hour behind the server
	browserNow := s.now.Add(-time.Hour).UnixMilli()

	fresh := map[string]interface{}{"latitude": 52.37, "longitude": 4.89, "accuracy": 12, "timestamp": browserNow - 2000, "sentAt": browserNow}
	req := map[string]interface{}{"location": fresh}
	for k, v := range ada {
		req[k] = v
	}
	resp := s.do(http.MethodPost, "/time/in", req)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	body := s.decode(resp)
	assert.Equal(s.T(), "Successfully Clocked IN", body.Status.Title)
	require.NotNil(s.T(), body.Log.Latitude)

	stale := map[string]interface{}{"latitude": 52.37, "longitude": 4.89, "accuracy": 12, "timestamp": browserNow - time.Hour.Milliseconds(), "sentAt": browserNow}
	req["location"] = stale
	resp = s.do(http.MethodPost, "/time/out", req)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	body = s.decode(resp)
	assert.Equal(s.T(), models.TitleLocationError, body.Status.Title)
	assert.Nil(s.T(), body.Log.Latitude)
}

func (s *RouterTestSuite) TestAbsences() {
	resp := s.do(http.MethodPost, "/absences", map[string]interface{}{"firstName": "Ada", "lastName": "Lovelace", "employeeId": "S1", "date": "2026-10-16"})
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Equal(s.T(), models.TitleMissingFields, s.decode(resp).Status.Title)

	resp = s.do(http.MethodPost, "/absences", map[string]interface{}{"firstName": "Ada", "lastName": "Lovelace", "employeeId": "S1", "date": "2026-10-16", "reason": "Sick"})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	assert.Equal(s.T(), "Your absence for 2026-10-16 has been recorded.", s.decode(resp).Status.Details)

	resp = s.do(http.MethodGet, "/absences?employeeId=S1", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var list struct {
		Absences []models.AbsenceLog `json:"absences"`
	}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(s.T(), list.Absences, 1)
}

func (s *RouterTestSuite) TestAdmin() {
	resp := s.do(http.MethodGet, "/admin", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(http.MethodPost, "/admin/login", map[string]string{"username": "admin", "password": "password123"})
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(s.T(), models.TitleLoginFailed, s.decode(resp).Status.Title)

	resp = s.do(http.MethodPost, "/admin/login", map[string]string{"username": "admin", "password": "correct horse"})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodGet, "/admin", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodGet, "/admin/export.xlsx", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	assert.True(s.T(), strings.HasPrefix(resp.Header.Get("Content-Type"), "application/vnd.openxmlformats"))

	resp = s.do(http.MethodPost, "/admin/clock-days", map[string]interface{}{"days": []map[string]interface{}{{"day_of_week": 3, "active": false}}})
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)

	// Thursday is now closed
	resp = s.do(http.MethodPost, "/time/in", ada)
	assert.Equal(s.T(), http.StatusForbidden, resp.StatusCode)
	assert.Equal(s.T(), "Check-in and check-out are only allowed Monday-Wednesday.", s.decode(resp).Status.Details)

	resp = s.do(http.MethodGet, "/admin/clock-days", nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	var listing struct {
		Days []struct {
			DayOfWeek int    `json:"day_of_week"`
			Name      string `json:"name"`
			Active    bool   `json:"active"`
			Permitted bool   `json:"permitted"`
		} `json:"days"`
	}
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&listing))
	require.Len(s.T(), listing.Days, 7)
	assert.Equal(s.T(), "Thursday", listing.Days[3].Name)
	assert.False(s.T(), listing.Days[3].Active)
	assert.False(s.T(), listing.Days[4].Permitted)

	resp = s.do(http.MethodPost, "/admin/logout", nil)
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
	resp = s.do(http.MethodGet, "/admin", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterTestSuite) TestWeekendCannotBeOpened() {
	resp := s.do(http.MethodPost, "/admin/login", map[string]string{"username": "admin", "password": "correct horse"})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp = s.do(http.MethodPost, "/admin/clock-days", map[string]interface{}{"days": []map[string]interface{}{
		{"day_of_week": 4, "active": true},
		{"day_of_week": 6, "active": true},
	}})
	assert.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
	assert.Equal(s.T(), models.TitleNotAllowed, s.decode(resp).Status.Title)

	// The table cannot be bypassed either
	_, err := s.app.db.Exec(`UPDATE clock_days SET active = 1 WHERE day_of_week = 4`)
	assert.Error(s.T(), err)

	s.now = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) // Friday
	for _, action := range []string{"in", "out"} {
		resp = s.do(http.MethodPost, "/time/"+action, ada)
		assert.Equal(s.T(), http.StatusForbidden, resp.StatusCode, action)
	}
	assert.Empty(s.T(), s.storedLogs())
}

func (s *RouterTestSuite) TestOIDCLoginDisabled() {
	resp := s.do(http.MethodGet, "/admin/login", nil)
	assert.Equal(s.T(), http.StatusNotFound, resp.StatusCode)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestHashPasswordCommand(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("correct horse\n"))
	cmd.SetArgs([]string{"hash-password"})

	require.NoError(t, cmd.Execute())

	admin, err := authenticator.NewLocalAdmin("admin", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	_, err = admin.Verify("admin", "correct horse")
	assert.NoError(t, err)
}

func TestPrintTimesheet(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, printTimesheet(cmd, "S1", nil))
	assert.Equal(t, "Timesheet for S1\nNo records found for this ID.\n", out.String())

	out.Reset()
	logs := []models.TimeLog{
		{Action: models.ActionOut, Timestamp: "10/15/2026, 10:30:00 AM", Duration: "1 hours, 30 minutes", UserInfo: models.UserInfo{DeviceName: "Laptop"}},
		{Action: models.ActionIn, Timestamp: "10/15/2026, 9:00:00 AM", UserInfo: models.UserInfo{DeviceName: "Laptop"}},
	}
	require.NoError(t, printTimesheet(cmd, "S1", logs))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "DURATION")
	assert.Contains(t, lines[2], "1 hours, 30 minutes")
}
