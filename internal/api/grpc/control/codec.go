package control

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
)

// Field names shared by requests and responses.
const (
	fieldHostname       = "hostname"
	fieldUsername       = "username"
	fieldSession        = "session"
	fieldPhase          = "phase"
	fieldCycle          = "cycle"
	fieldCycleStartedAt = "cycle_started_at"
	fieldAlarmFiredAt   = "alarm_fired_at"
	fieldAccepted       = "accepted"
)

var (
	// errMissingField is returned when a message lacks a required field.
	errMissingField = errors.New("missing field")
	// errUnknownPhase is returned for a phase name the client does not know.
	errUnknownPhase = errors.New("unknown phase")
)

// ResetResult is the outcome of a remote reset.
type ResetResult struct {
	// Accepted is true when the alarm had fired, so the reset starts a new cycle.
	Accepted bool
	// Status is the scheduler state observed when the request arrived.
	Status domain.Status
}

// ActorToStruct encodes a reset request.
func ActorToStruct(actor *domain.Actor) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldHostname: structpb.NewStringValue(actor.Hostname),
			fieldUsername: structpb.NewStringValue(actor.Username),
		},
	}
}

// ActorFromStruct decodes a reset request.
func ActorFromStruct(msg *structpb.Struct) (*domain.Actor, error) {
	hostname := msg.GetFields()[fieldHostname].GetStringValue()
	if hostname == "" {
		return nil, fmt.Errorf("%w: %s", errMissingField, fieldHostname)
	}

	username := msg.GetFields()[fieldUsername].GetStringValue()
	if username == "" {
		return nil, fmt.Errorf("%w: %s", errMissingField, fieldUsername)
	}

	return &domain.Actor{
		Hostname: hostname,
		Username: username,
	}, nil
}

// StatusToStruct encodes a status snapshot. Zero times are encoded as null.
func StatusToStruct(status domain.Status) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldSession:        structpb.NewStringValue(status.Session),
			fieldPhase:          structpb.NewStringValue(status.Phase.String()),
			fieldCycle:          structpb.NewNumberValue(float64(status.Cycle)),
			fieldCycleStartedAt: timeValue(status.CycleStartedAt),
			fieldAlarmFiredAt:   timeValue(status.AlarmFiredAt),
		},
	}
}

// StatusFromStruct decodes a status snapshot.
func StatusFromStruct(msg *structpb.Struct) (domain.Status, error) {
	fields := msg.GetFields()

	if _, ok := fields[fieldPhase]; !ok {
		return domain.Status{}, fmt.Errorf("%w: %s", errMissingField, fieldPhase)
	}

	phase, err := parsePhase(fields[fieldPhase].GetStringValue())
	if err != nil {
		return domain.Status{}, err
	}

	cycleStartedAt, err := parseTime(fields[fieldCycleStartedAt])
	if err != nil {
		return domain.Status{}, fmt.Errorf("%s: %w", fieldCycleStartedAt, err)
	}

	alarmFiredAt, err := parseTime(fields[fieldAlarmFiredAt])
	if err != nil {
		return domain.Status{}, fmt.Errorf("%s: %w", fieldAlarmFiredAt, err)
	}

	return domain.Status{
		Session:        fields[fieldSession].GetStringValue(),
		Phase:          phase,
		Cycle:          uint64(fields[fieldCycle].GetNumberValue()),
		CycleStartedAt: cycleStartedAt,
		AlarmFiredAt:   alarmFiredAt,
	}, nil
}

// ResetResultToStruct encodes a reset response.
func ResetResultToStruct(result ResetResult) *structpb.Struct {
	msg := StatusToStruct(result.Status)
	msg.Fields[fieldAccepted] = structpb.NewBoolValue(result.Accepted)

	return msg
}

// ResetResultFromStruct decodes a reset response.
func ResetResultFromStruct(msg *structpb.Struct) (*ResetResult, error) {
	status, err := StatusFromStruct(msg)
	if err != nil {
		return nil, err
	}

	return &ResetResult{
		Accepted: msg.GetFields()[fieldAccepted].GetBoolValue(),
		Status:   status,
	}, nil
}

func timeValue(t time.Time) *structpb.Value {
	if t.IsZero() {
		return structpb.NewNullValue()
	}

	return structpb.NewStringValue(t.UTC().Format(time.RFC3339Nano))
}

func parseTime(value *structpb.Value) (time.Time, error) {
	text := value.GetStringValue()
	if text == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339Nano, text)
}

func parsePhase(name string) (domain.Phase, error) {
	for _, phase := range []domain.Phase{domain.PhaseArming, domain.PhaseAwaitingReset} {
		if phase.String() == name {
			return phase, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errUnknownPhase, name)
}
