// Command simulator replays vital-sign CSV files against the ingestion
// API, one goroutine per file, pacing sends at a fixed interval. The
// patient name and CPF columns are sent only until the first accepted
// reading per patient; after that the server inherits them.
package main

import (
	"encoding/csv"
	"flag"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abreuwilliam/Desafio/internal/delivery/dto"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// CSV column layout:
// 0 timestamp | 1 paciente_id | 2 paciente_nome | 3 paciente_cpf
// 4 hr | 5 spo2 | 6 pressao_sys | 7 pressao_dia | 8 temp | 9 resp_freq | 10 status
const (
	colTimestamp = iota
	colPatientID
	colPatientName
	colPatientCPF
	colHeartRate
	colSpO2
	colSystolic
	colDiastolic
	colTemperature
	colRespRate
	colStatus
)

var nonNumeric = regexp.MustCompile(`[^0-9+\-.]`)

type simulator struct {
	client   *resty.Client
	log      *logrus.Logger
	interval time.Duration
	token    string

	// Patients whose first reading was accepted; identity fields are
	// no longer sent for them.
	seededMu sync.Mutex
	seeded   map[string]struct{}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the vital-signs API")
	interval := flag.Duration("interval", 200*time.Millisecond, "delay between readings per file")
	token := flag.String("token", "", "optional bearer token")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	files := flag.Args()
	if len(files) == 0 {
		files = []string{"dados_pac001.csv", "dados_pac002.csv", "dados_pac003.csv"}
	}

	sim := &simulator{
		client: resty.New().
			SetBaseURL(*baseURL).
			SetTimeout(8 * time.Second).
			SetHeader("Content-Type", "application/json"),
		log:      log,
		interval: *interval,
		token:    *token,
		seeded:   make(map[string]struct{}),
	}

	var wg sync.WaitGroup
	for _, file := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sim.replayFile(path)
		}(file)
	}
	wg.Wait()
}

func (s *simulator) replayFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		s.log.Errorf("[%s] cannot open file: %v", path, err)
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		s.log.Errorf("[%s] cannot read header: %v", path, err)
		return
	}

	line := 0
	for {
		fields, err := reader.Read()
		if err != nil {
			break
		}
		line++

		req, ok := s.buildRequest(path, line, fields)
		if !ok {
			continue
		}

		time.Sleep(s.interval)
		s.send(path, line, req)
	}

	s.log.Infof("[%s] finished, %d lines processed", path, line)
}

func (s *simulator) buildRequest(path string, line int, fields []string) (*dto.IngestVitalSignRequest, bool) {
	patientID := field(fields, colPatientID)
	if patientID == "" {
		s.log.Warnf("[%s] #%d skipped: empty patient id", path, line)
		return nil, false
	}

	req := &dto.IngestVitalSignRequest{
		PatientID:         patientID,
		HeartRate:         parseIntField(field(fields, colHeartRate)),
		OxygenSaturation:  parseFloatField(field(fields, colSpO2)),
		SystolicPressure:  parseFloatField(field(fields, colSystolic)),
		DiastolicPressure: parseFloatField(field(fields, colDiastolic)),
		Temperature:       parseFloatField(field(fields, colTemperature)),
		RespiratoryRate:   parseFloatField(field(fields, colRespRate)),
		Status:            field(fields, colStatus),
		Timestamp:         normalizeTimestamp(field(fields, colTimestamp)),
	}

	if !s.isSeeded(patientID) {
		name := field(fields, colPatientName)
		cpf := field(fields, colPatientCPF)
		if name == "" || cpf == "" {
			s.log.Warnf("[%s] #%d skipped: first reading for %s without name/cpf", path, line, patientID)
			return nil, false
		}
		req.PatientName = name
		req.PatientCPF = cpf
	}

	return req, true
}

func (s *simulator) send(path string, line int, req *dto.IngestVitalSignRequest) {
	r := s.client.R().SetBody(req)
	if s.token != "" {
		r.SetAuthToken(s.token)
	}

	resp, err := r.Post("/api/v1/vital-signs")
	if err != nil {
		s.log.Errorf("[%s] #%d send failed: %v", path, line, err)
		return
	}

	if resp.IsSuccess() {
		s.markSeeded(req.PatientID)
		return
	}

	s.log.Errorf("[%s] #%d rejected with %d: %s", path, line, resp.StatusCode(), resp.String())
}

func (s *simulator) isSeeded(patientID string) bool {
	s.seededMu.Lock()
	defer s.seededMu.Unlock()
	_, ok := s.seeded[patientID]
	return ok
}

func (s *simulator) markSeeded(patientID string) {
	s.seededMu.Lock()
	defer s.seededMu.Unlock()
	s.seeded[patientID] = struct{}{}
}

func field(fields []string, idx int) string {
	if idx >= len(fields) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(fields[idx]), `"`)
}

// normalizeNum accepts "85", "85.0" and "85,0" and strips stray symbols.
func normalizeNum(s string) string {
	n := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	n = nonNumeric.ReplaceAllString(n, "")
	return n
}

func parseIntField(s string) *int {
	n := normalizeNum(s)
	if n == "" {
		return nil
	}
	if strings.Contains(n, ".") {
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		v := int(f + 0.5)
		return &v
	}
	v, err := strconv.Atoi(n)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatField(s string) *float64 {
	n := normalizeNum(s)
	if n == "" {
		return nil
	}
	v, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return nil
	}
	return &v
}

// normalizeTimestamp turns the lenient CSV formats into the ISO-8601
// local literal the API accepts. Unparseable input falls back to now.
func normalizeTimestamp(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Now().Format("2006-01-02T15:04:05")
	}

	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"02/01/2006 15:04:05",
		"02/01/2006 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.Format("2006-01-02T15:04:05")
		}
	}

	return time.Now().Format("2006-01-02T15:04:05")
}
