// Package chat implements the donor FAQ assistant: an ordered list of keyword
// rules where the first matching rule answers.
package chat

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Topic identifiers, useful for metrics and tests.
const (
	TopicEligibility = "eligibility"
	TopicProcess     = "process"
	TopicBenefits    = "benefits"
	TopicFirstTime   = "first_time"
	TopicBloodTypes  = "blood_types"
	TopicFrequency   = "frequency"
	TopicSafety      = "safety"
	TopicDuration    = "duration"
	TopicPain        = "pain"
	TopicRecovery    = "recovery"
	TopicFallback    = "fallback"
)

// Rule pairs a keyword set with a canned reply. A rule matches when any keyword
// occurs as a substring of the lower-cased input.
type Rule struct {
	Topic    string
	Keywords []string
	Reply    string
}

// Answer is a reply and the rule that produced it.
type Answer struct {
	Topic string
	Text  string
}

type compiledRule struct {
	Rule
	matcher ahocorasick.AhoCorasick
}

// Responder evaluates rules top to bottom. It is immutable and safe for concurrent use.
type Responder struct {
	rules    []compiledRule
	fallback string
}

// NewResponder compiles rules in the given priority order.
func NewResponder(rules []Rule, fallback string) *Responder {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			if kw = strings.ToLower(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		if len(keywords) == 0 {
			continue
		}
		builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
			AsciiCaseInsensitive: true,
			MatchOnlyWholeWords:  false,
			MatchKind:            ahocorasick.LeftMostLongestMatch,
			DFA:                  true,
		})
		rule.Keywords = keywords
		compiled = append(compiled, compiledRule{Rule: rule, matcher: builder.Build(keywords)})
	}
	return &Responder{rules: compiled, fallback: fallback}
}

// Reply answers input with the first matching rule, or the fallback menu.
func (r *Responder) Reply(input string) Answer {
	text := strings.ToLower(input)
	for _, rule := range r.rules {
		if len(rule.matcher.FindAll(text)) > 0 {
			return Answer{Topic: rule.Topic, Text: rule.Reply}
		}
	}
	return Answer{Topic: TopicFallback, Text: r.fallback}
}

// Topics returns the rule topics in priority order.
func (r *Responder) Topics() []string {
	out := make([]string, len(r.rules))
	for i, rule := range r.rules {
		out[i] = rule.Topic
	}
	return out
}

// DefaultResponder returns the blood-donation FAQ.
func DefaultResponder() *Responder {
	return NewResponder(DefaultRules(), FallbackReply)
}

// FallbackReply lists the topics the assistant covers.
const FallbackReply = "Thank you for your interest in blood donation! I can help with information about:\n" +
	"• Eligibility requirements\n• The donation process\n• Health benefits\n• Blood types\n" +
	"• Safety measures\n• Recovery after donation\n\nWhat specific question can I answer for you?"

// WelcomeMessage opens every conversation.
const WelcomeMessage = "Hello! I'm your BloodConnect assistant. I can provide basic information about " +
	"blood donation: eligibility, the donation process, safety and recovery. What would you like to know?"

// SuggestedQuestions are offered as one-click prompts.
func SuggestedQuestions() []string {
	return []string{
		"What are the eligibility requirements?",
		"How does the donation process work?",
		"What are the health benefits?",
		"How often can I donate blood?",
		"Is blood donation safe?",
		"What should I do after donating?",
	}
}

// DefaultRules returns the FAQ rules. Order matters: inputs often match several
// rules and the earliest one answers.
func DefaultRules() []Rule {
	return []Rule{
		{
			Topic:    TopicEligibility,
			Keywords: []string{"eligib", "qualif", "require"},
			Reply: "To donate blood, you typically need to be 18-65 years old, weigh at least 50kg, be in good health, " +
				"and not have any transmittable diseases. There should be at least 56 days between donations. " +
				"Specific requirements may vary, so it's best to consult with our medical staff.",
		},
		{
			Topic:    TopicProcess,
			Keywords: []string{"process", "how to donate", "what happens"},
			Reply: "The blood donation process is simple and safe:\n\n1. Registration and health check\n" +
				"2. Mini health screening (hemoglobin, blood pressure)\n3. Comfortable donation (takes 8-10 minutes)\n" +
				"4. Rest and refreshments\n\nThe entire process takes about 30-45 minutes. Your donation can save up to 3 lives!",
		},
		{
			Topic:    TopicBenefits,
			Keywords: []string{"benefit", "why donate", "good for"},
			Reply: "Blood donation benefits both recipients and donors! You help save lives while also getting a free " +
				"health checkup. Donating blood can reduce iron overload, stimulate new blood cell production, and give " +
				"you the satisfaction of making a life-saving difference in your community.",
		},
		{
			Topic:    TopicFirstTime,
			Keywords: []string{"first time", "nervous", "scared"},
			Reply: "It's completely normal to be nervous about your first donation! Our staff are trained to make you " +
				"comfortable. Eat a good meal beforehand, stay hydrated, and remember that you're doing something amazing. " +
				"Most donors say it's much easier than they expected!",
		},
		{
			Topic:    TopicBloodTypes,
			Keywords: []string{"blood type", "group", "o+", "a+", "b+", "ab+"},
			Reply: "All blood types are needed! O-negative is the universal donor for red blood cells, while AB-positive " +
				"is the universal plasma donor. However, every blood type is precious and can save lives. We'll match " +
				"your donation with patients who need your specific type.",
		},
		{
			Topic:    TopicFrequency,
			Keywords: []string{"how often", "frequency", "wait"},
			Reply: "You can donate whole blood every 56 days (about 8 weeks). Male donors can donate up to 4 times a year, " +
				"and female donors up to 3 times a year. Platelet donations can be made more frequently. Your body " +
				"replenishes the donated blood within a few weeks.",
		},
		{
			Topic:    TopicSafety,
			Keywords: []string{"safe", "sterile", "clean"},
			Reply: "Blood donation is extremely safe! We use sterile, single-use equipment for every donation. All needles " +
				"are used once and then properly disposed. Our staff follow strict hygiene protocols to ensure your " +
				"safety throughout the process.",
		},
		{
			Topic:    TopicDuration,
			Keywords: []string{"time", "long", "take"},
			Reply: "The actual blood donation takes only 8-10 minutes. With registration, health screening, and " +
				"post-donation rest, the entire process typically takes 30-45 minutes. It's a small time commitment " +
				"for such a life-saving act!",
		},
		{
			Topic:    TopicPain,
			Keywords: []string{"pain", "hurt", "needle"},
			Reply: "Most donors describe the feeling as a quick pinch, similar to a mosquito bite. The discomfort is " +
				"minimal and brief. Our staff are experts at making the experience as comfortable as possible. The " +
				"life-saving impact far outweighs the momentary discomfort!",
		},
		{
			Topic:    TopicRecovery,
			Keywords: []string{"after", "recover", "rest"},
			Reply: "After donating, we recommend:\n• Rest for 10-15 minutes\n• Drink plenty of fluids\n" +
				"• Avoid heavy lifting for 24 hours\n• Eat iron-rich foods\nMost people feel completely normal " +
				"immediately after donation and can resume normal activities.",
		},
	}
}
