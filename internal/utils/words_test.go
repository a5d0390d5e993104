package utils

import "testing"

func TestCountWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		word string
		want int
	}{
		{name: "case insensitive", text: "Led teams. led again", word: "LED", want: 2},
		{name: "inside other word", text: "Scaled and enabled", word: "led", want: 0},
		{name: "multi word", text: "Data Pipeline owner; data pipeline.", word: "data pipeline", want: 2},
		{name: "punctuation edges", text: "(AWS), aws-native", word: "aws", want: 2},
		{name: "latex command neighbour", text: `\textbf{Kafka}`, word: "kafka", want: 1},
		{name: "digits glue", text: "ml2 ML", word: "ml", want: 1},
		{name: "empty word", text: "anything", word: " ", want: 0},
		{name: "word longer than text", text: "ai", word: "airflow", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CountWord(tt.text, tt.word); got != tt.want {
				t.Fatalf("CountWord(%q, %q) = %d, want %d", tt.text, tt.word, got, tt.want)
			}
		})
	}

	if !ContainsWord("Built with Go", "go") {
		t.Fatal("expected ContainsWord to find go")
	}
}
