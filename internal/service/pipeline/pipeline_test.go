package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/internal/service/dates"
)

type memHistory struct {
	turns []core.Turn // oldest first
	err   error
}

func (m *memHistory) AppendTurn(_ context.Context, _ int64, _ string, turn core.Turn) error {
	m.turns = append(m.turns, turn)
	return nil
}

func (m *memHistory) RecentTurns(_ context.Context, _ int64, _ string, limit int) ([]core.Turn, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]core.Turn, 0, limit)
	for i := len(m.turns) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.turns[i])
	}
	return out, nil
}

type memSessions struct {
	period core.Period
	saved  bool
}

func (m *memSessions) RememberedPeriod(_ context.Context, _ int64, _ string) (core.Period, bool, error) {
	return m.period, !m.period.IsZero(), nil
}

func (m *memSessions) SaveRememberedPeriod(_ context.Context, _ int64, _ string, p core.Period) error {
	m.period = p
	m.saved = true
	return nil
}

type memSettings struct {
	settings core.TenantAISettings
}

func (m *memSettings) AISettings(_ context.Context, _ int64) (core.TenantAISettings, error) {
	return m.settings, nil
}

type memProfiles struct {
	profile core.FormattingProfile
	err     error
}

func (m *memProfiles) Profile(_ context.Context, _ int64, _ core.Channel) (core.FormattingProfile, error) {
	if m.err != nil {
		return core.FormattingProfile{}, m.err
	}
	return m.profile, nil
}

type memUsage struct {
	entries []core.TokenUsage
}

func (m *memUsage) LogTokens(_ context.Context, usage core.TokenUsage) error {
	m.entries = append(m.entries, usage)
	return nil
}

type fakeRetriever struct {
	result    core.RetrievalResult
	lastQuery string
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, _ int64, query string, _ core.TenantAISettings) core.RetrievalResult {
	f.lastQuery = query
	return f.result
}

type fakeGenerator struct {
	answer  string
	err     error
	lastReq core.GenerationRequest
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, req core.GenerationRequest) (core.GenerationResult, error) {
	f.lastReq = req
	if f.err != nil {
		return core.GenerationResult{}, f.err
	}
	return core.GenerationResult{Text: f.answer, TokensUsed: 42}, nil
}

func fixedClock() time.Time {
	return time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
}

type fixture struct {
	pipeline  *Pipeline
	history   *memHistory
	sessions  *memSessions
	usage     *memUsage
	retriever *fakeRetriever
	generator *fakeGenerator
}

func newFixture() *fixture {
	f := &fixture{
		history:  &memHistory{},
		sessions: &memSessions{},
		usage:    &memUsage{},
		retriever: &fakeRetriever{result: core.RetrievalResult{
			Decision: core.GateAccept,
			Reason:   "ok:tariffs:ru",
			Context:  "Номер стандарт стоит 5000 рублей.",
		}},
		generator: &fakeGenerator{answer: "Номер стоит 5000 рублей за ночь."},
	}
	f.pipeline = NewPipeline(
		f.history,
		f.sessions,
		&memSettings{},
		&memProfiles{err: core.ErrProfileMissing},
		f.usage,
		dates.NewExtractor(10, fixedClock),
		f.retriever,
		f.generator,
		10,
	)
	return f
}

func handle(t *testing.T, f *fixture, text string) Reply {
	t.Helper()
	reply, err := f.pipeline.HandleMessage(context.Background(), Request{
		SessionID: "s1",
		TenantID:  1,
		Channel:   core.ChannelTelegram,
		UserText:  text,
	})
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", text, err)
	}
	return reply
}

func TestHandleMessage_ShortFollowUpIsEnriched(t *testing.T) {
	f := newFixture()

	handle(t, f, "сколько стоит номер на 11 марта?")
	handle(t, f, "комфорт")

	if f.retriever.lastQuery != "комфорт 11 марта" {
		t.Errorf("retrieval query = %q, want %q", f.retriever.lastQuery, "комфорт 11 марта")
	}
}

func TestHandleMessage_RememberedPeriodUpdates(t *testing.T) {
	f := newFixture()

	handle(t, f, "сколько стоит номер на 11 марта?")
	if f.sessions.period.Raw != "11 марта" {
		t.Fatalf("remembered period = %q, want %q", f.sessions.period.Raw, "11 марта")
	}

	handle(t, f, "а на 20 апреля?")
	if f.sessions.period.Raw != "20 апреля" {
		t.Fatalf("remembered period = %q, want %q", f.sessions.period.Raw, "20 апреля")
	}

	handle(t, f, "стандарт")
	if f.retriever.lastQuery != "стандарт 20 апреля" {
		t.Errorf("retrieval query = %q, want %q", f.retriever.lastQuery, "стандарт 20 апреля")
	}
}

func TestHandleMessage_RelativeDateNormalized(t *testing.T) {
	f := newFixture()

	handle(t, f, "есть номера на завтра?")

	if f.sessions.period.Raw != "11 февраля" {
		t.Errorf("remembered period = %q, want %q", f.sessions.period.Raw, "11 февраля")
	}
	// The stored turn carries the absolute date too.
	if f.history.turns[0].Content != "есть номера на 11 февраля?" {
		t.Errorf("stored user turn = %q", f.history.turns[0].Content)
	}
}

func TestHandleMessage_GateRejectWithholdsHistoryAndContext(t *testing.T) {
	f := newFixture()
	handle(t, f, "сколько стоит номер на 11 марта?")

	f.retriever.result = core.RetrievalResult{
		Decision: core.GateReject,
		Reason:   "low_similarity:tariffs:0.20",
	}

	reply := handle(t, f, "расскажите про прачечную")

	if !reply.Degraded {
		t.Error("reply must be marked degraded")
	}
	if len(f.generator.lastReq.History) != 0 {
		t.Errorf("history must be withheld on gate reject, got %d turns", len(f.generator.lastReq.History))
	}
	if !strings.Contains(f.generator.lastReq.System, "Документы пока не загружены") {
		t.Errorf("system prompt must carry the no-documents placeholder: %q", f.generator.lastReq.System)
	}
}

func TestHandleMessage_AcceptedContextReachesGenerator(t *testing.T) {
	f := newFixture()

	handle(t, f, "сколько стоит номер на 11 марта?")
	handle(t, f, "а завтрак включен?")

	if !strings.Contains(f.generator.lastReq.System, "Номер стандарт стоит 5000 рублей.") {
		t.Errorf("system prompt lacks grounding context: %q", f.generator.lastReq.System)
	}
	if len(f.generator.lastReq.History) == 0 {
		t.Error("history must be passed oldest first when the gate accepts")
	}
	first := f.generator.lastReq.History[0]
	if first.Content != "сколько стоит номер на 11 марта?" {
		t.Errorf("history[0] = %q, want the oldest turn", first.Content)
	}
}

func TestHandleMessage_PersistsBothTurns(t *testing.T) {
	f := newFixture()

	handle(t, f, "сколько стоит номер на 11 марта?")

	if len(f.history.turns) != 2 {
		t.Fatalf("got %d stored turns, want 2", len(f.history.turns))
	}
	if f.history.turns[0].Role != core.RoleUser || f.history.turns[1].Role != core.RoleAssistant {
		t.Errorf("turn roles = %q, %q", f.history.turns[0].Role, f.history.turns[1].Role)
	}
}

func TestHandleMessage_HistoryUnavailable(t *testing.T) {
	f := newFixture()
	f.history.err = errors.New("db locked")

	reply := handle(t, f, "сколько стоит номер?")

	if !strings.Contains(reply.Text, "даты") {
		t.Errorf("clarification must ask for dates: %q", reply.Text)
	}
	if !reply.Degraded {
		t.Error("clarification reply must be degraded")
	}
}

func TestHandleMessage_GenerationFailure(t *testing.T) {
	f := newFixture()
	f.generator.err = errors.New("provider down")

	_, err := f.pipeline.HandleMessage(context.Background(), Request{
		SessionID: "s1", TenantID: 1, Channel: core.ChannelTelegram, UserText: "вопрос",
	})
	if !errors.Is(err, core.ErrGenerationFailed) {
		t.Errorf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestHandleMessage_UnknownChannel(t *testing.T) {
	f := newFixture()

	_, err := f.pipeline.HandleMessage(context.Background(), Request{
		SessionID: "s1", TenantID: 1, Channel: "sms", UserText: "вопрос",
	})
	if err == nil {
		t.Fatal("want error for unknown channel")
	}
}

func TestHandleMessage_TokenUsageLogged(t *testing.T) {
	f := newFixture()

	handle(t, f, "сколько стоит номер на 11 марта?")

	ops := map[string]bool{}
	for _, e := range f.usage.entries {
		ops[e.Operation] = true
	}
	if !ops["embedding"] || !ops["generation"] {
		t.Errorf("usage entries = %+v, want embedding and generation", f.usage.entries)
	}
}

func TestSessionLocks_SerializesPerSession(t *testing.T) {
	locks := newSessionLocks()

	var inCritical int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("s1")
			defer unlock()

			if n := atomic.AddInt32(&inCritical, 1); n != 1 {
				t.Errorf("two holders inside the same session lock")
			}
			atomic.AddInt32(&inCritical, -1)
		}()
	}
	wg.Wait()

	// Different sessions must not share a mutex.
	unlockA := locks.lock("a")
	unlockB := locks.lock("b")
	unlockA()
	unlockB()
}

func TestComposeSystem(t *testing.T) {
	got := composeSystem("Ты ассистент.", "Контекст про отель.", true)
	if !strings.Contains(got, "Доступная информация из документов:\nКонтекст про отель.") {
		t.Errorf("composeSystem = %q", got)
	}

	got = composeSystem("Ты ассистент.", "Контекст про отель.", false)
	if !strings.Contains(got, "Документы пока не загружены") {
		t.Errorf("rejected context must be replaced by the placeholder: %q", got)
	}

	got = composeSystem("", "", false)
	if !strings.HasPrefix(got, defaultSystemPrompt) {
		t.Errorf("empty template must use the default prompt: %q", got)
	}
}
