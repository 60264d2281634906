/*
Package ipc implements a MessagePack stdin/stdout protocol exposing the
Hanvi engine to an external UI process: conversion, the IO Facade edits
(names, phrases, and grammar rules), and NameSet listing and switching. It
follows the same decode-loop /
mutex-guarded atomic-write shape as a conventional msgpack IPC server —
one request decoded from stdin, one response encoded to stdout, in order.
*/
package ipc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/masceron/Hanvi/internal/dictionary"
	"github.com/masceron/Hanvi/internal/engine"
)

// Request is one decoded msgpack request. Fields are action-specific; Id is
// echoed back on every response so a client can match replies to calls.
type Request struct {
	Id       string   `msgpack:"id"`
	Action   string   `msgpack:"action"`
	Text     string   `msgpack:"text,omitempty"`
	SetID    int      `msgpack:"set_id,omitempty"`
	SetTitle string   `msgpack:"set_title,omitempty"`
	Key      string   `msgpack:"key,omitempty"`
	Value    string   `msgpack:"value,omitempty"`
	Order    []string `msgpack:"order,omitempty"`

	OriginalStart    string `msgpack:"original_start,omitempty"`
	OriginalEnd      string `msgpack:"original_end,omitempty"`
	TranslationStart string `msgpack:"translation_start,omitempty"`
	TranslationEnd   string `msgpack:"translation_end,omitempty"`
}

// ConvertResponse mirrors engine.Converter's annotated output.
type ConvertResponse struct {
	Id       string `msgpack:"id"`
	CN       string `msgpack:"cn"`
	SV       string `msgpack:"sv"`
	VN       string `msgpack:"vn"`
	Consumed int    `msgpack:"consumed"`
}

// PlainResponse carries the Vietnamese-only plain text variant.
type PlainResponse struct {
	Id   string `msgpack:"id"`
	Text string `msgpack:"text"`
}

// StatusResponse is the generic ok/error envelope for edit and
// administrative actions.
type StatusResponse struct {
	Id     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
}

// NameSetsResponse lists the available overlays.
type NameSetsResponse struct {
	Id       string                   `msgpack:"id"`
	NameSets []dictionary.NameSetMeta `msgpack:"name_sets"`
}

// Server decodes requests from stdin and writes responses to stdout.
type Server struct {
	eng        *engine.Engine
	decoder    *msgpack.Decoder
	writeMutex sync.Mutex
}

// NewServer returns a Server bound to an already cold-loaded Engine.
func NewServer(eng *engine.Engine) *Server {
	return &Server{
		eng:     eng,
		decoder: msgpack.NewDecoder(os.Stdin),
	}
}

// Start loops decoding and handling requests until stdin closes.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("starting msgpack IPC server")
	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if err == io.EOF {
				log.Debug("client disconnected")
				return nil
			}
			log.Debugf("decode error: %v", err)
			continue
		}
		if err := s.handle(ctx, req); err != nil {
			log.Errorf("handling action %q: %v", req.Action, err)
		}
	}
}

func (s *Server) handle(ctx context.Context, req Request) error {
	switch req.Action {
	case "convert":
		result := s.eng.Converter.Convert(req.Text, nil)
		return s.send(&ConvertResponse{Id: req.Id, CN: result.CN, SV: result.SV, VN: result.VN, Consumed: result.Consumed})

	case "convert_plain":
		text := s.eng.Converter.ConvertPlain(req.Text, nil)
		return s.send(&PlainResponse{Id: req.Id, Text: text})

	case "insert_name":
		err := s.eng.Facade.InsertName(ctx, req.SetID, req.Key, req.Value)
		return s.sendStatus(req.Id, err)

	case "insert_phrase":
		err := s.eng.Facade.InsertPhrase(ctx, req.Key, req.Value)
		return s.sendStatus(req.Id, err)

	case "reorder_phrase":
		err := s.eng.Facade.ReorderPhrase(ctx, req.Key, req.Order)
		return s.sendStatus(req.Id, err)

	case "remove_name":
		err := s.eng.Facade.RemoveName(ctx, req.SetID, req.Key)
		return s.sendStatus(req.Id, err)

	case "remove_phrase":
		err := s.eng.Facade.RemovePhrase(ctx, req.Key)
		return s.sendStatus(req.Id, err)

	case "remove_phrase_meaning":
		err := s.eng.Facade.RemovePhraseMeaning(ctx, req.Key, req.Value)
		return s.sendStatus(req.Id, err)

	case "insert_rule":
		err := s.eng.Facade.InsertRule(ctx, dictionary.Rule{
			OriginalStart:    req.OriginalStart,
			OriginalEnd:      req.OriginalEnd,
			TranslationStart: req.TranslationStart,
			TranslationEnd:   req.TranslationEnd,
		})
		return s.sendStatus(req.Id, err)

	case "remove_rule":
		err := s.eng.Facade.RemoveRule(ctx, req.OriginalStart, req.OriginalEnd)
		return s.sendStatus(req.Id, err)

	case "switch_nameset":
		var err error
		if req.SetTitle != "" {
			err = s.eng.SwitchNameSetByTitle(ctx, req.SetTitle)
		} else {
			err = s.eng.SwitchNameSet(ctx, req.SetID)
		}
		return s.sendStatus(req.Id, err)

	case "list_namesets":
		return s.send(&NameSetsResponse{Id: req.Id, NameSets: s.eng.NameSets()})

	default:
		return s.sendStatus(req.Id, fmt.Errorf("unknown action: %s", req.Action))
	}
}

func (s *Server) sendStatus(id string, err error) error {
	if err != nil {
		return s.send(&StatusResponse{Id: id, Status: "error", Error: err.Error()})
	}
	return s.send(&StatusResponse{Id: id, Status: "ok"})
}

// send encodes response to a buffer and writes it to stdout atomically,
// under writeMutex, so concurrent handlers (there are none yet, but future
// callers may add one goroutine per request) never interleave partial
// frames.
func (s *Server) send(response any) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(response); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
