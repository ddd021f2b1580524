package hooks

import (
	"fmt"

	"github.com/Mori-kamiyama/nikopoke/internal/battle"
	"github.com/Mori-kamiyama/nikopoke/internal/events"
)

// Field-effect identifiers dispatched below. The four weather kinds are
// mutually exclusive (battle.IsWeather / the applier's eviction rule
// enforces that); the remainder are independent global or side-scoped
// effects.
const (
	FieldSun       = "sun"
	FieldRain      = "rain"
	FieldHail      = "hail"
	FieldSandstorm = "sandstorm"
)

// WeatherDamageMultiplier implements the onModifyPower field value-hook for
// weather-boosted/weakened move types (fire/water in sun/rain; no type
// interaction for hail/sandstorm beyond their residual chip damage).
func WeatherDamageMultiplier(weather string, moveType string) float64 {
	switch weather {
	case FieldSun:
		switch moveType {
		case "fire":
			return 1.5
		case "water":
			return 0.5
		}
	case FieldRain:
		switch moveType {
		case "water":
			return 1.5
		case "fire":
			return 0.5
		}
	}
	return 1.0
}

// WeatherImmuneTypes lists the types immune to a weather's end-of-turn chip
// damage (hail spares ice-types, sandstorm spares rock/ground/steel).
func WeatherImmuneTypes(weather string) []string {
	switch weather {
	case FieldHail:
		return []string{"ice"}
	case FieldSandstorm:
		return []string{"rock", "ground", "steel"}
	}
	return nil
}

// OnTurnEndWeatherDamage implements hail/sandstorm's end-of-turn chip damage
// (1/16 max HP) against any non-immune active creature.
func OnTurnEndWeatherDamage(weather string, typed []string, maxHP int) (int, bool) {
	if weather != FieldHail && weather != FieldSandstorm {
		return 0, false
	}
	immune := WeatherImmuneTypes(weather)
	for _, t := range typed {
		for _, it := range immune {
			if t == it {
				return 0, false
			}
		}
	}
	dmg := maxHP / 16
	if dmg < 1 {
		dmg = 1
	}
	return dmg, true
}

// OnFieldTurnEnd builds the log + damage events for every non-fainted active
// creature at end of turn under the current global weather.
func OnFieldTurnEnd(state *battle.State, weather string) []events.Event {
	var out []events.Event
	for _, p := range state.Players {
		if p == nil {
			continue
		}
		c := p.Active()
		if c == nil || c.IsFainted() {
			continue
		}
		dmg, hit := OnTurnEndWeatherDamage(weather, c.Types, c.MaxHP)
		if !hit {
			continue
		}
		out = append(out, events.Log(fmt.Sprintf("%s is buffeted by the %s!", c.Name, weatherLabel(weather))))
		out = append(out, events.Event{Kind: events.KindDamage, TargetID: c.InstanceID, Amount: dmg})
	}
	return out
}

func weatherLabel(weather string) string {
	switch weather {
	case FieldHail:
		return "hail"
	case FieldSandstorm:
		return "sandstorm"
	default:
		return weather
	}
}
