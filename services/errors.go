package services

import "errors"

// Fehlerarten der Pipeline. Aufrufer prüfen mit errors.Is und mappen auf
// HTTP-Status bzw. Batch-Fehlereinträge.
var (
	// ErrEmbeddingUnavailable: Embedding-Aufruf fehlgeschlagen oder leere Eingabe.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrNoCandidates: Auswahl lieferte null Artikel. Terminal, kein Retry.
	ErrNoCandidates = errors.New("no candidate articles found")

	// ErrSynthesis: TTS-Aufruf fehlgeschlagen oder Eingabe abgelehnt.
	ErrSynthesis = errors.New("speech synthesis failed")

	// ErrStorage: Datenbank oder Objektspeicher nicht erreichbar bzw. Write fehlgeschlagen.
	ErrStorage = errors.New("storage unavailable")

	// ErrValidation: fehlerhafte Auswahlkriterien oder Dimensions-Verstoß.
	ErrValidation = errors.New("invalid request")
)
