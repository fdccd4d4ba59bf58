package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/SyedMHaroon/NamazBot/domain"
	"go.uber.org/zap"
)

const (
	PromptName          = "Please enter your Name:"
	PromptEmail         = "Please enter your Email:"
	PromptInvalidEmail  = "Please enter a valid email (e.g., name@example.com)."
	PromptLocation      = "Please enter your location as: City - Country  (e.g., Lahore - Pakistan)"
	PromptLocationShape = "Use the format: City - Country  (e.g., Lahore - Pakistan)"
	PromptLocationRetry = "I couldn't validate that location. Please re-enter as: City - Country  (e.g., Karachi - Pakistan)"
	PromptYesNo         = "Please reply Yes or No to confirm your location."
	onboardingGreeting  = "Assalamualaikum! I'll collect a few details to personalize timings."
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

var (
	affirmative = map[string]bool{"yes": true, "y": true, "haan": true, "han": true, "ji": true, "ok": true, "نعم": true}
	negative    = map[string]bool{"no": true, "n": true, "na": true, "nah": true, "لا": true}
)

// Onboarding collects name, email and a confirmed location before any other
// intent may run. It never consults the classifier.
type Onboarding struct {
	locations     domain.LocationValidator
	profiles      domain.ProfileRepository
	subscriptions domain.SubscriptionRepository
	events        domain.EventLogger
	logger        *zap.Logger
}

// NewOnboarding creates a new onboarding state machine
func NewOnboarding(
	locations domain.LocationValidator,
	profiles domain.ProfileRepository,
	subscriptions domain.SubscriptionRepository,
	events domain.EventLogger,
	logger *zap.Logger,
) *Onboarding {
	return &Onboarding{
		locations:     locations,
		profiles:      profiles,
		subscriptions: subscriptions,
		events:        events,
		logger:        logger,
	}
}

// NextFieldPrompt returns the prompt for the first missing required field in
// the order name, email, location. A complete profile returns "".
func NextFieldPrompt(p *domain.Profile) string {
	switch {
	case p.Name == "":
		return PromptName
	case p.Email == "":
		return PromptEmail
	case p.City == "" || p.Country == "":
		return PromptLocation
	}
	return ""
}

func setupCompleteReply(p *domain.Profile) string {
	return fmt.Sprintf("Shukriya, %s! Setup complete for %s, %s.\n"+
		"You can now ask: 'Fajr time', 'Next prayer', or 'Islamic date'.", p.Name, p.City, p.Country)
}

func confirmLocationReply(loc *domain.StagedLocation) string {
	return fmt.Sprintf("Please confirm your location: %s, %s (timezone: %s).\n"+
		"Reply **Yes** to confirm or **No** to change.", loc.City, loc.Country, loc.Timezone)
}

// Step advances onboarding by one input. handled is false when the profile
// is complete and the turn should go on to the dispatcher.
func (o *Onboarding) Step(ctx context.Context, p *domain.Profile, input string) (reply string, handled bool) {
	q := strings.TrimSpace(input)

	switch p.Session.Stage {
	case domain.StageConfirmingLocation:
		if p.Session.Staged == nil {
			p.Session.Stage = domain.StageAwaitingLocation
			return PromptLocation, true
		}
		return o.confirm(ctx, p, q), true

	case domain.StageAwaitingName:
		if q == "" || strings.EqualFold(q, "ok") || strings.EqualFold(q, "okay") {
			return PromptName, true
		}
		p.Name = q

	case domain.StageAwaitingEmail:
		if !emailRe.MatchString(q) {
			return PromptInvalidEmail, true
		}
		p.Email = q

	case domain.StageAwaitingLocation:
		return o.stageLocation(ctx, p, q), true

	case domain.StageNone, domain.StageComplete:
		if p.IsComplete() {
			p.Session.Stage = domain.StageComplete
			return "", false
		}
	}

	return o.advance(ctx, p), true
}

// advance moves to the first missing field, or completes setup when none is
// left
func (o *Onboarding) advance(ctx context.Context, p *domain.Profile) string {
	prompt := NextFieldPrompt(p)
	switch prompt {
	case PromptName:
		p.Session.Stage = domain.StageAwaitingName
	case PromptEmail:
		p.Session.Stage = domain.StageAwaitingEmail
	case PromptLocation:
		p.Session.Stage = domain.StageAwaitingLocation
	default:
		o.complete(ctx, p)
		return setupCompleteReply(p)
	}

	if !p.Session.OnboardingAck {
		p.Session.OnboardingAck = true
		return onboardingGreeting + "\n" + prompt
	}
	return prompt
}

func (o *Onboarding) stageLocation(ctx context.Context, p *domain.Profile, q string) string {
	city, country := o.locations.ParseCityCountry(q)
	if city == "" {
		return PromptLocationShape
	}
	if country == "" {
		_, typed, _ := strings.Cut(q, "-")
		if s := o.locations.SuggestCountry(typed); s != "" {
			return fmt.Sprintf("I couldn't recognize that country. Did you mean %s?\n%s", s, PromptLocationShape)
		}
		return PromptLocationShape
	}

	res := o.locations.Validate(ctx, city, country)
	if !res.IsOk() {
		o.logger.Info("location rejected",
			zap.String("user_id", p.UserID), zap.String("city", city), zap.String("country", country),
			zap.Error(res.Reason()))
		return PromptLocationRetry
	}

	p.Session.Stage = domain.StageConfirmingLocation
	p.Session.Staged = &domain.StagedLocation{City: city, Country: country, Timezone: res.Value()}
	return confirmLocationReply(p.Session.Staged)
}

func (o *Onboarding) confirm(ctx context.Context, p *domain.Profile, q string) string {
	answer := strings.ToLower(q)
	switch {
	case affirmative[answer]:
		p.City = p.Session.Staged.City
		p.Country = p.Session.Staged.Country
		p.Timezone = p.Session.Staged.Timezone
		p.Session.Staged = nil
		return o.advance(ctx, p)
	case negative[answer]:
		p.Session.Staged = nil
		p.Session.Stage = domain.StageAwaitingLocation
		return PromptLocation
	}
	return PromptYesNo
}

// complete marks setup done and runs the one-time side effects. Failures are
// logged; the user still gets the completion reply.
func (o *Onboarding) complete(ctx context.Context, p *domain.Profile) {
	p.Session.Stage = domain.StageComplete
	p.Session.Staged = nil

	event := domain.NewEvent(domain.OnboardingCompletedEvent, p.UserID).
		WithMetadata("city", p.City).
		WithMetadata("country", p.Country)

	if err := o.profiles.Upsert(ctx, p.Durable()); err != nil {
		o.logger.Error("failed to persist profile", zap.String("user_id", p.UserID), zap.Error(err))
		event.WithError(err)
	}
	if err := o.subscriptions.Subscribe(ctx, p.UserID); err != nil {
		o.logger.Error("failed to subscribe to digest", zap.String("user_id", p.UserID), zap.Error(err))
		event.WithError(err)
	}
	o.events.LogEvent(ctx, event)
}
