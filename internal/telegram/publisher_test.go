package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records every Send/Request and lets tests script the responses.
type fakeAPI struct {
	sendFn    func(tgbotapi.Chattable) (tgbotapi.Message, error)
	requestFn func(tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	sends     []tgbotapi.Chattable
	requests  []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sends = append(f.sends, c)
	if f.sendFn != nil {
		return f.sendFn(c)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	if f.requestFn != nil {
		return f.requestFn(c)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func storageUploadMessage() tgbotapi.Message {
	return tgbotapi.Message{
		MessageID: 77,
		Chat:      &tgbotapi.Chat{ID: -100200300},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", Width: 90, Height: 90},
			{FileID: "medium", Width: 320, Height: 320},
			{FileID: "large", Width: 800, Height: 800},
		},
	}
}

func testArtifact() Artifact {
	return Artifact{Image: []byte("png"), Caption: "Пара: BTC/USD"}
}

func TestPublishReturnsLargestPhotoHandle(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(tgbotapi.Chattable) (tgbotapi.Message, error) {
			return storageUploadMessage(), nil
		},
	}
	publisher := NewPublisher(api, -100200300)

	fileID, err := publisher.Publish(testArtifact())
	require.NoError(t, err)
	assert.Equal(t, "large", fileID)

	require.Len(t, api.sends, 1)
	photo, ok := api.sends[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, "Пара: BTC/USD", photo.Caption)

	require.Len(t, api.requests, 1)
	del, ok := api.requests[0].(tgbotapi.DeleteMessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100200300), del.ChatID)
	assert.Equal(t, 77, del.MessageID)
}

func TestPublishCleanupFailureStillReturnsHandle(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(tgbotapi.Chattable) (tgbotapi.Message, error) {
			return storageUploadMessage(), nil
		},
		requestFn: func(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
			return nil, errors.New("message to delete not found")
		},
	}
	publisher := NewPublisher(api, -100200300)

	fileID, err := publisher.Publish(testArtifact())
	require.NoError(t, err)
	assert.Equal(t, "large", fileID)
	assert.Len(t, api.requests, 1)
}

func TestPublishUploadErrorReturnsNoHandle(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(tgbotapi.Chattable) (tgbotapi.Message, error) {
			return tgbotapi.Message{}, errors.New("bad request: chat not found")
		},
	}
	publisher := NewPublisher(api, -100200300)

	fileID, err := publisher.Publish(testArtifact())
	assert.Error(t, err)
	assert.Empty(t, fileID)
	assert.Empty(t, api.requests, "no cleanup for a failed upload")
}

func TestPublishUnconfirmedPhotoReturnsNoHandle(t *testing.T) {
	api := &fakeAPI{
		sendFn: func(tgbotapi.Chattable) (tgbotapi.Message, error) {
			return tgbotapi.Message{MessageID: 78, Chat: &tgbotapi.Chat{ID: -1}}, nil
		},
	}
	publisher := NewPublisher(api, -1)

	fileID, err := publisher.Publish(testArtifact())
	assert.Error(t, err)
	assert.Empty(t, fileID)
	assert.Empty(t, api.requests)
}

func TestLargestPhotoIgnoresOrdering(t *testing.T) {
	sizes := []tgbotapi.PhotoSize{
		{FileID: "big", Width: 1280, Height: 1280},
		{FileID: "tiny", Width: 90, Height: 90},
	}
	assert.Equal(t, "big", largestPhoto(sizes).FileID)
}
