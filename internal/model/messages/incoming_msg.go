package messages

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

type messageSender interface {
	SendMessage(text string, userID int64) error
	SendDocument(name string, data []byte, userID int64) error
}

// Message is one incoming user interaction: command text, optionally an
// attached import file.
type Message struct {
	Text     string
	UserID   int64
	FileName string
	FileData []byte
}

// Response is what a handler wants delivered back: a text reply and,
// for exports, a file.
type Response struct {
	Text     string
	FileName string
	FileData []byte
}

type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message) (Response, error)
}

type Service struct {
	tgClient messageSender
	handler  MessageHandler
}

func NewService(tgClient messageSender, storage recordStorage, cache reportCache, dispatcher notifyDispatcher, config config) *Service {
	return &Service{
		tgClient: tgClient,
		handler:  newHandler(storage, cache, dispatcher, config),
	}
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()

	start := time.Now()
	err := s.handle(ctx, msg)
	elapsed := time.Since(start)

	observeResponse(elapsed, err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) handle(ctx context.Context, msg Message) error {
	resp, err := s.handler.HandleMessage(ctx, msg)
	if err != nil {
		_ = s.tgClient.SendMessage("Sorry, something wrong happened...\n"+resp.Text, msg.UserID)
		return err
	}
	if resp.FileData != nil {
		if err = s.tgClient.SendDocument(resp.FileName, resp.FileData, msg.UserID); err != nil {
			return err
		}
	}
	if resp.Text == "" {
		return nil
	}
	return s.tgClient.SendMessage(resp.Text, msg.UserID)
}
