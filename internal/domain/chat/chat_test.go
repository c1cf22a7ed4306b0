package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponder_Reply(t *testing.T) {
	r := DefaultResponder()

	tests := []struct {
		input string
		topic string
	}{
		{input: "How often can I donate blood?", topic: TopicFrequency},
		{input: "asdkjf", topic: TopicFallback},
		{input: "", topic: TopicFallback},
		{input: "Am I ELIGIBLE?", topic: TopicEligibility},
		{input: "what happens during donation", topic: TopicProcess},
		{input: "is it good for me", topic: TopicBenefits},
		{input: "I'm nervous", topic: TopicFirstTime},
		{input: "I am AB+", topic: TopicBloodTypes},
		{input: "Is it sterile?", topic: TopicSafety},
		{input: "does the needle hurt", topic: TopicPain},
		{input: "how should I recover", topic: TopicRecovery},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.topic, r.Reply(tt.input).Topic)
		})
	}
}

func TestResponder_FrequencyReplyText(t *testing.T) {
	got := DefaultResponder().Reply("How often can I donate blood?")
	assert.Contains(t, got.Text, "every 56 days")
	assert.NotEqual(t, FallbackReply, got.Text)
}

func TestResponder_FirstMatchWins(t *testing.T) {
	r := DefaultResponder()

	// "first time" (anxiety) precedes "time" (duration).
	assert.Equal(t, TopicFirstTime, r.Reply("It's my first time, how long does it take?").Topic)
	// "safe" precedes "after".
	assert.Equal(t, TopicSafety, r.Reply("is it safe after surgery").Topic)
	// "require" precedes "how often".
	assert.Equal(t, TopicEligibility, r.Reply("how often is it required").Topic)
	// "interest" contains "rest" and nothing earlier.
	assert.Equal(t, TopicRecovery, r.Reply("interesting").Topic)
}

func TestResponder_OrderIsPreserved(t *testing.T) {
	assert.Equal(t, []string{
		TopicEligibility, TopicProcess, TopicBenefits, TopicFirstTime, TopicBloodTypes,
		TopicFrequency, TopicSafety, TopicDuration, TopicPain, TopicRecovery,
	}, DefaultResponder().Topics())

	reordered := NewResponder([]Rule{
		{Topic: "b", Keywords: []string{"time"}, Reply: "B"},
		{Topic: "a", Keywords: []string{"first time"}, Reply: "A"},
	}, "fallback")
	assert.Equal(t, "b", reordered.Reply("first time").Topic)
}

func TestConversation_Lifecycle(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := DefaultResponder()
	var c Conversation

	_, _, err := c.Ask(r, "hello", now)
	require.ErrorIs(t, err, ErrClosed)

	c.Open(now)
	c.Open(now)
	transcript := c.Transcript()
	require.Len(t, transcript, 1, "welcome is added once per open")
	assert.True(t, transcript[0].FromBot)
	assert.Equal(t, WelcomeMessage, transcript[0].Text)

	_, asked, err := c.Ask(r, "   ", now)
	require.NoError(t, err)
	assert.False(t, asked)

	answer, asked, err := c.Ask(r, "How often can I donate blood?", now)
	require.NoError(t, err)
	assert.True(t, asked)
	assert.Equal(t, TopicFrequency, answer.Topic)
	assert.Len(t, c.Transcript(), 3)

	c.Close()
	assert.False(t, c.IsOpen())
	assert.Empty(t, c.Transcript())

	c.Open(now)
	assert.Len(t, c.Transcript(), 1, "reopening starts a fresh transcript")
}
