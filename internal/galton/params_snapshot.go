package galton

import (
	"strconv"

	"quincunx/internal/core"
)

// Parameters reports the machine's shape and current tallies.
func (m *Machine) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		machineGroup(m),
	}}
}

func machineGroup(m *Machine) core.ParameterGroup {
	return core.ParameterGroup{
		Name: "Machine",
		Params: []core.Parameter{
			intParam("slots", "Slots", m.Slots()),
			intParam("remaining", "Waiting beads", m.Remaining()),
			intParam("in_flight", "Falling beads", m.InFlight()),
			intParam("settled", "Settled beads", m.Settled()),
			floatParam("average", "Average slot", m.Average()),
		},
	}
}

func configGroup(cfg Config) core.ParameterGroup {
	return core.ParameterGroup{
		Name: "Experiment",
		Params: []core.Parameter{
			intParam("beads", "Beads", cfg.Beads),
			stringParam("mode", "Mode", cfg.Mode.String()),
			int64Param("seed", "Seed", cfg.Seed),
			floatParam("skill_average", "Skill average", cfg.SkillAverage),
			floatParam("skill_stdev", "Skill stdev", cfg.SkillStdev),
		},
	}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
