package scheduling

import (
	"fmt"
	"iter"
	"slices"

	"github.com/uma-arai/sbcntr-roombook/internal/model"
)

// 営業時間は 09:00 から 18:00 まで、30分刻み
const (
	OpenMinutes  = 9 * 60
	CloseMinutes = 18 * 60
	SlotMinutes  = 30
)

// TimeSlots は営業時間内の予約枠を昇順に返します
// 返されるシーケンスは何度でも最初から列挙し直せます
func TimeSlots() iter.Seq[model.TimeSlot] {
	return func(yield func(model.TimeSlot) bool) {
		for m := OpenMinutes; m <= CloseMinutes; m += SlotMinutes {
			if !yield(slotAt(m)) {
				return
			}
		}
	}
}

// SlotGrid は TimeSlots をスライスにしたものです
func SlotGrid() []model.TimeSlot {
	return slices.Collect(TimeSlots())
}

func slotAt(minutes int) model.TimeSlot {
	return model.TimeSlot{
		Time:    formatTimeOfDay(minutes),
		Display: fmt.Sprintf("%d:%02d", minutes/60, minutes%60),
	}
}
