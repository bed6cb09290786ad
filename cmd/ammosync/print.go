package main

import (
	"fmt"
	"io"

	"ammosync/internal/notify"
	"ammosync/internal/store"
)

func printChat(out io.Writer, msgs []store.ChatMessage) {
	for _, msg := range msgs {
		stamp := msg.SentAt.Local().Format("15:04:05")
		card, err := notify.Parse(msg.Body)
		if err != nil {
			fmt.Fprintf(out, "[%s] %s: %s\n", stamp, msg.Speaker, msg.Body)
			continue
		}
		switch card.Template {
		case notify.TemplateGear:
			fmt.Fprintf(out, "[%s] %s: %s: %s (%s)\n", stamp, msg.Speaker, card.Fields["playerName"], card.Fields["gearName"], card.Fields["gearDescription"])
		case notify.TemplateInjury:
			fmt.Fprintf(out, "[%s] %s: %s: %s! %s\n", stamp, msg.Speaker, card.Fields["playerName"], card.Fields["injuryLocation"], card.Fields["injuryEffect"])
		default:
			fmt.Fprintf(out, "[%s] %s: %s\n", stamp, msg.Speaker, msg.Body)
		}
	}
}
