package mocks

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t mock.TestingT) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
	return m
}

func (_m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := _m.Called(ctx)
	msg, _ := ret.Get(0).(kafka.Message)
	return msg, ret.Error(1)
}

type Sender struct {
	mock.Mock
}

func NewSender(t mock.TestingT) *Sender {
	m := &Sender{}
	m.Mock.Test(t)
	if c, ok := t.(interface{ Cleanup(func()) }); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
	return m
}

func (_m *Sender) SendMessage(ctx context.Context, chatID, text string) error {
	return _m.Called(ctx, chatID, text).Error(0)
}
