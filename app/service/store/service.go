package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/do"
)

var auditFilePath = filepath.Join("data", "sessions.jsonl")

var _ do.Shutdownable = (*Service)(nil)

// Service is the only shared mutable state in the pipeline. Writes are
// whole-record swaps behind a mutex, so a reader sees either the previous
// record or the new one, never a partial write.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session
	audit    *os.File
}

func New(_ *do.Injector) (*Service, error) {
	_ = os.MkdirAll(filepath.Dir(auditFilePath), 0755)

	s := &Service{
		sessions: make(map[string]*session),
	}

	if err := s.replayAudit(); err != nil {
		return nil, fmt.Errorf("failed to replay audit log: %w", err)
	}

	file, err := os.OpenFile(auditFilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	s.audit = file

	return s, nil
}

func (s *Service) replayAudit() error {
	file, err := os.OpenFile(auditFilePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry auditLine
		if err = json.Unmarshal([]byte(line), &entry); err != nil {
			return fmt.Errorf("failed to parse JSON line: %w", err)
		}

		sess := s.sessionLocked(entry.SessionID)
		switch entry.Kind {
		case "analysis":
			if entry.Record != nil {
				sess.records = append(sess.records, entry.Record)
			}
		case "turn":
			if entry.Turn != nil {
				sess.turns = append(sess.turns, *entry.Turn)
			}
		}
	}

	if err = scanner.Err(); err != nil {
		return fmt.Errorf("error reading audit log: %w", err)
	}

	return nil
}

func (s *Service) sessionLocked(sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	return sess
}

func (s *Service) appendAudit(entry auditLine) {
	if s.audit == nil {
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = s.audit.Write(append(data, '\n'))
}

// Put stores a new analysis version for the session. It never mutates a
// previously stored record.
func (s *Service) Put(sessionID string, record *AnalysisRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionLocked(sessionID)
	sess.records = append(sess.records, record)

	s.appendAudit(auditLine{
		Kind:      "analysis",
		SessionID: sessionID,
		Record:    record,
	})
}

// GetLatest returns the newest record by CreatedAt, last-writer-wins when
// two uploads raced. The second return is false when the session has no
// analysis yet.
func (s *Service) GetLatest(sessionID string) (*AnalysisRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || len(sess.records) == 0 {
		return nil, false
	}

	latest := sess.records[0]
	for _, record := range sess.records[1:] {
		if !record.CreatedAt.Before(latest.CreatedAt) {
			latest = record
		}
	}

	return latest, true
}

// History returns every analysis version stored for the session in insertion
// order. Audit-only; the pipeline reads through GetLatest.
func (s *Service) History(sessionID string) []*AnalysisRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	result := make([]*AnalysisRecord, len(sess.records))
	copy(result, sess.records)
	return result
}

// AppendTurn adds one exchange to the session transcript.
func (s *Service) AppendTurn(sessionID string, turn ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionLocked(sessionID)
	sess.turns = append(sess.turns, turn)

	s.appendAudit(auditLine{
		Kind:      "turn",
		SessionID: sessionID,
		Turn:      &turn,
	})
}

// Turns returns the session transcript in occurrence order.
func (s *Service) Turns(sessionID string) []ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	result := make([]ConversationTurn, len(sess.turns))
	copy(result, sess.turns)
	return result
}

func (s *Service) Shutdown() error {
	if s.audit != nil {
		return s.audit.Close()
	}
	return nil
}
