package conversation

// assemble rebuilds the per-turn reasoning context: the latest analysis
// record (nil when the session has none), the most recent transcript window,
// and the verbatim location hint. Truncation drops oldest turns only; the
// record itself is never truncated away.
func (s *Service) assemble(sessionID, message, location string) ReasoningContext {
	record, _ := s.storeSvc.GetLatest(sessionID)

	turns := s.storeSvc.Turns(sessionID)
	if window := s.cfg.Chat.HistoryWindow; len(turns) > window {
		turns = turns[len(turns)-window:]
	}

	return ReasoningContext{
		SessionID: sessionID,
		Message:   message,
		Location:  location,
		Record:    record,
		History:   turns,
	}
}
