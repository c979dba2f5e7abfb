package tg

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"max.ks1230/expense-tracker/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"max.ks1230/expense-tracker/internal/model/messages"
)

const (
	defaultUpdateOffset = 0
	timeoutSeconds      = 15

	// import files come from users; anything bigger than this is not an
	// expense archive
	maxImportFileSize = 5 << 20
)

type tokenGetter interface {
	Token() string
}

type Client struct {
	client *tgbotapi.BotAPI
}

func New(tokenGetter tokenGetter) (*Client, error) {
	client, err := tgbotapi.NewBotAPI(tokenGetter.Token())
	if err != nil {
		return nil, errors.Wrap(err, "cannot NewBotApi")
	}
	return &Client{client}, nil
}

func (c *Client) SendMessage(text string, userID int64) error {
	_, err := c.client.Send(tgbotapi.NewMessage(userID, text))
	if err != nil {
		return errors.Wrap(err, "client.Send")
	}
	return nil
}

func (c *Client) SendDocument(name string, data []byte, userID int64) error {
	doc := tgbotapi.NewDocument(userID, tgbotapi.FileBytes{
		Name:  name,
		Bytes: data,
	})
	_, err := c.client.Send(doc)
	if err != nil {
		return errors.Wrap(err, "client.Send document")
	}
	return nil
}

func (c *Client) ListenUpdates(ctx context.Context, msgModel *messages.Service) {
	u := tgbotapi.NewUpdate(defaultUpdateOffset)
	u.Timeout = 60

	updates := c.client.GetUpdatesChan(u)

	logger.Info("Start listening for messages")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop listening for messages")
			return
		case update := <-updates:
			c.listenOnce(ctx, update, msgModel)
		}
	}
}

func (c *Client) listenOnce(ctx context.Context, update tgbotapi.Update, msgModel *messages.Service) {
	if update.Message == nil {
		return
	}
	logger.Info(update.Message.Text, zap.String("user", update.Message.From.UserName))

	ctx, cancel := context.WithTimeout(ctx, time.Second*timeoutSeconds)
	defer cancel()

	msg := messages.Message{
		Text:   update.Message.Text,
		UserID: update.Message.From.ID,
	}

	if doc := update.Message.Document; doc != nil {
		data, err := c.downloadDocument(ctx, doc.FileID)
		if err != nil {
			logger.Error("error downloading document:", zap.Error(err))
			return
		}
		msg.FileName = doc.FileName
		msg.FileData = data
	}

	if err := msgModel.HandleIncomingMessage(ctx, msg); err != nil {
		logger.Error("error processing message:", zap.Error(err))
	}
}

func (c *Client) downloadDocument(ctx context.Context, fileID string) ([]byte, error) {
	url, err := c.client.GetFileDirectURL(fileID)
	if err != nil {
		return nil, errors.Wrap(err, "resolve file url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build file request")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch file")
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxImportFileSize))
	return data, errors.Wrap(err, "read file")
}
