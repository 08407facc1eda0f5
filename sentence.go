package main

import "strings"

// SentenceBuffer accumulates chord tokens into a sentence and decides,
// via an idle-tick counter, when the sentence is complete. A sentence
// ends after the counter exceeds the configured threshold, i.e. after
// threshold+1 consecutive quiet ticks following the last chord. An empty
// buffer never completes.
type SentenceBuffer struct {
	idleLimit int

	buf       strings.Builder
	idleTicks int
}

func NewSentenceBuffer(idleLimit int) *SentenceBuffer {
	return &SentenceBuffer{idleLimit: idleLimit}
}

// Append adds a chord token to the in-progress sentence and restarts the
// idle countdown.
func (s *SentenceBuffer) Append(token string) {
	s.buf.WriteString(token)
	s.idleTicks = 0
}

// Idle records a tick that produced no chord. When the in-progress
// sentence has been quiet for long enough it is returned complete and the
// buffer is cleared.
func (s *SentenceBuffer) Idle() (sentence string, done bool) {
	if s.buf.Len() == 0 {
		return "", false
	}
	s.idleTicks++
	if s.idleTicks <= s.idleLimit {
		return "", false
	}
	sentence = s.buf.String()
	s.Reset()
	return sentence, true
}

// Reset discards any in-progress sentence.
func (s *SentenceBuffer) Reset() {
	s.buf.Reset()
	s.idleTicks = 0
}
