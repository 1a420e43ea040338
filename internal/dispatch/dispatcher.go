// Package dispatch turns raw inbound message events into validated,
// authorized, throttled, fault-contained command executions. The pipeline is
// strictly ordered and short-circuits on the first rejection; nothing raised
// below this boundary ever propagates to the messaging collaborator.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"wabot/internal/auth"
	"wabot/internal/command"
	"wabot/internal/config"
	"wabot/internal/gateway"
	"wabot/internal/identity"
	"wabot/internal/metrics"
	"wabot/internal/throttle"
)

// Outcome is the terminal state of one inbound event.
type Outcome int

const (
	// Ignored: no matching command, or a mode gate dropped the event silently.
	Ignored Outcome = iota
	// Handled: a response was produced, successfully or as a rejection.
	Handled
)

// Deps bundles the collaborators a dispatcher needs.
type Deps struct {
	Registry  *command.Registry
	Source    command.Source
	Policy    *auth.Policy
	Resolver  *auth.Resolver
	Cooldowns *throttle.Cooldowns
	Rates     *throttle.RateLimiter
	Spam      *throttle.SpamGuard
	Messenger gateway.Messenger
	Roster    gateway.RosterProvider
	Profiles  gateway.ProfileStore
	Usage     gateway.UsageSink
	Store     command.AdminStore
}

// Dispatcher is the top-level pipeline. It is safe for concurrent invocation;
// all mutable state lives behind per-structure locks in the throttle and
// registry packages.
type Dispatcher struct {
	cfg  *config.Config
	deps Deps
	env  *command.Env

	modeMu sync.RWMutex
	mode   string

	now func() time.Time
}

// New wires a dispatcher. The operating mode starts from configuration and
// can be changed at runtime through the ModeController interface.
func New(cfg *config.Config, deps Deps) *Dispatcher {
	d := &Dispatcher{
		cfg:  cfg,
		deps: deps,
		mode: cfg.Mode,
		now:  time.Now,
	}
	d.env = &command.Env{
		Config:   cfg,
		Registry: deps.Registry,
		Source:   deps.Source,
		Policy:   deps.Policy,
		Store:    deps.Store,
		Roster:   deps.Roster,
		Mode:     d,
	}
	return d
}

// Mode returns the current operating mode.
func (d *Dispatcher) Mode() string {
	d.modeMu.RLock()
	defer d.modeMu.RUnlock()
	return d.mode
}

// SetMode switches the operating mode at runtime.
func (d *Dispatcher) SetMode(mode string) error {
	switch mode {
	case config.ModePublic, config.ModePrivate, config.ModeSelf:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
	d.modeMu.Lock()
	d.mode = mode
	d.modeMu.Unlock()
	log.Info().Str("mode", mode).Msg("operating mode changed")
	return nil
}

// HandleMessage runs the full pipeline for one inbound event.
func (d *Dispatcher) HandleMessage(ctx context.Context, evt gateway.Event) Outcome {
	mode := d.Mode()

	// The bot's own messages re-enter the pipeline only in self mode, and in
	// self mode nothing else does.
	if evt.FromSelf && mode != config.ModeSelf {
		return Ignored
	}
	if mode == config.ModeSelf && !evt.FromSelf {
		return Ignored
	}

	id := d.canonicalSender(ctx, evt)
	name, args, isCommand := d.parse(evt.Text)

	// The burst-spam guard runs on every inbound message, not only commands.
	// Owners bypass it.
	if !d.deps.Policy.IsOwner(id) {
		at := evt.Timestamp
		if at.IsZero() {
			at = d.now()
		}
		if ok, wait := d.deps.Spam.Check(id, at); !ok {
			metrics.RejectionsTotal.WithLabelValues("spam").Inc()
			if isCommand {
				d.reply(ctx, evt.Chat, replySpam(wait))
				return Handled
			}
			return Ignored
		}
	}

	if !isCommand {
		return Ignored
	}

	def, found := d.deps.Registry.Resolve(name)
	if !found {
		metrics.UnknownCommandsTotal.Inc()
		d.reply(ctx, evt.Chat, replyUnknown(d.cfg.Prefix, suggest(name, d.deps.Registry.Names())))
		return Handled
	}

	caps := d.deps.Resolver.Resolve(ctx, id, evt.Chat, evt.IsGroup)

	// Private mode answers only the owner; everyone else is dropped without a
	// response.
	if mode == config.ModePrivate && !caps.Owner {
		return Ignored
	}

	if outcome, done := d.banGate(ctx, evt, id); done {
		return outcome
	}
	if outcome, done := d.scopeGate(ctx, evt, def, caps); done {
		return outcome
	}

	if !caps.SatisfiesAny(def.Capabilities) {
		metrics.RejectionsTotal.WithLabelValues("capability").Inc()
		d.reply(ctx, evt.Chat, replyAccessDenied)
		return Handled
	}

	// Cooldowns protect downstream resources, so even owners wait them out.
	if ok, remaining := d.deps.Cooldowns.Check(def.Name, id, def.Cooldown); !ok {
		metrics.RejectionsTotal.WithLabelValues("cooldown").Inc()
		d.reply(ctx, evt.Chat, replyCooldown(remaining))
		return Handled
	}

	if !caps.Owner {
		if ok, retry := d.deps.Rates.Check(id); !ok {
			metrics.RejectionsTotal.WithLabelValues("rate").Inc()
			d.reply(ctx, evt.Chat, replyRateLimited(retry))
			return Handled
		}
	}

	if len(args) < def.MinArgs || (def.MaxArgs != command.NoLimit && len(args) > def.MaxArgs) {
		metrics.RejectionsTotal.WithLabelValues("arity").Inc()
		d.reply(ctx, evt.Chat, replyUsage(d.cfg.Prefix, def.Name, def.Usage))
		return Handled
	}

	d.execute(ctx, evt, def, id, args, caps)
	return Handled
}

// canonicalSender normalizes the raw sender identifier, cross-referencing the
// group roster when the sender arrived under an alias address.
func (d *Dispatcher) canonicalSender(ctx context.Context, evt gateway.Event) string {
	var roster []gateway.Participant
	if evt.IsGroup && d.deps.Roster != nil && identity.Parse(evt.Sender).Kind == identity.KindAlias {
		participants, err := d.deps.Roster.GroupRoster(ctx, evt.Chat)
		if err != nil {
			log.Warn().Err(err).Str("chat", evt.Chat).Msg("roster lookup failed, alias sender unresolved")
		} else {
			roster = participants
		}
	}
	return identity.Normalize(evt.Sender, roster)
}

// parse splits the triggering text into command token and argument tokens.
func (d *Dispatcher) parse(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)
	if d.cfg.Prefix == "" || !strings.HasPrefix(text, d.cfg.Prefix) {
		return "", nil, false
	}
	fields := strings.Fields(text[len(d.cfg.Prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// banGate terminates banned users early. An unavailable profile store is not
// interpreted as "not banned": the gate is skipped with an explicit warning
// so the policy choice stays visible in the logs.
func (d *Dispatcher) banGate(ctx context.Context, evt gateway.Event, id string) (Outcome, bool) {
	if d.deps.Profiles == nil {
		return Ignored, false
	}
	prof, err := d.deps.Profiles.Profile(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("user", id).Msg("profile store unavailable, skipping ban check")
		return Ignored, false
	}
	if prof.Banned {
		metrics.RejectionsTotal.WithLabelValues("ban").Inc()
		d.reply(ctx, evt.Chat, replyBanReason(prof.BanReason))
		return Handled, true
	}
	return Ignored, false
}

// scopeGate enforces the definition's chat-scope and role flags. Each failure
// yields its own rejection message.
func (d *Dispatcher) scopeGate(ctx context.Context, evt gateway.Event, def *command.Definition, caps auth.Capabilities) (Outcome, bool) {
	reject := func(msg string) (Outcome, bool) {
		metrics.RejectionsTotal.WithLabelValues("scope").Inc()
		d.reply(ctx, evt.Chat, msg)
		return Handled, true
	}

	if def.OwnerOnly && !caps.Owner {
		return reject(replyOwnerOnly)
	}
	if (def.GroupOnly || def.AdminOnly) && !evt.IsGroup {
		return reject(replyGroupOnly)
	}
	if def.PrivateOnly && evt.IsGroup {
		return reject(replyPrivateOnly)
	}
	if def.AdminOnly && !(caps.GroupAdmin || caps.Sudoer || caps.Owner) {
		return reject(replyAdminOnly)
	}
	if def.RequireBotAdmin && evt.IsGroup && !caps.BotGroupAdmin {
		return reject(replyBotAdminOnly)
	}
	return Ignored, false
}

// execute runs the handler with fault containment and records the outcome.
// A panicking handler is logged and answered with a generic failure notice;
// it never takes the dispatcher down.
func (d *Dispatcher) execute(ctx context.Context, evt gateway.Event, def *command.Definition, id string, args []string, caps auth.Capabilities) {
	req := &command.Request{
		Sender:  id,
		Chat:    evt.Chat,
		IsGroup: evt.IsGroup,
		Args:    args,
		Caps:    caps,
		Reply: func(content string) error {
			return d.deps.Messenger.SendResponse(ctx, evt.Chat, content)
		},
		Env: d.env,
	}

	execCtx := ctx
	if d.cfg.ExecBudget > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, d.cfg.ExecBudget)
		defer cancel()
	}

	start := d.now()
	err := runContained(execCtx, def.Handler, req)
	duration := d.now().Sub(start)

	status := "ok"
	if err != nil {
		status = "error"
		log.Error().Err(err).
			Str("command", def.Name).
			Str("user", id).
			Str("chat", evt.Chat).
			Msg("command execution failed")
		d.reply(ctx, evt.Chat, replyGenericError)
	}

	if d.cfg.SlowThreshold > 0 && duration > d.cfg.SlowThreshold {
		log.Warn().
			Str("command", def.Name).
			Dur("duration", duration).
			Msg("slow command execution")
	}

	metrics.InvocationsTotal.WithLabelValues(def.Name, status).Inc()
	metrics.HandlerDurationSeconds.WithLabelValues(def.Name).Observe(duration.Seconds())

	if d.deps.Usage != nil {
		rec := gateway.UsageRecord{
			ID:         uuid.NewString(),
			User:       id,
			Command:    def.Name,
			Chat:       evt.Chat,
			DurationMs: duration.Milliseconds(),
			Success:    err == nil,
			Datetime:   start,
		}
		// Fire and forget: the usage log must never block the dispatch path.
		go func() {
			if err := d.deps.Usage.Append(rec); err != nil {
				log.Warn().Err(err).Str("command", rec.Command).Msg("failed to append usage record")
			}
		}()
	}
}

// runContained invokes the handler, converting a panic into an error.
func runContained(ctx context.Context, h command.Handler, req *command.Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, req)
}

// reply sends a response, logging (not propagating) a send failure.
func (d *Dispatcher) reply(ctx context.Context, chatID, content string) {
	if err := d.deps.Messenger.SendResponse(ctx, chatID, content); err != nil {
		log.Warn().Err(err).Str("chat", chatID).Msg("failed to send response")
	}
}
