package engine

import "testing"

func TestClassifierRetain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		classifier Classifier
		status     int
		length     int
		want       bool
	}{
		{name: "zero value retains everything", classifier: Classifier{}, status: 0, length: 0, want: true},
		{name: "allowed status", classifier: Classifier{Allow: []int{200}}, status: 200, want: true},
		{name: "status outside allow list", classifier: Classifier{Allow: []int{200}}, status: 404, want: false},
		{name: "deny list wins over allow list", classifier: Classifier{Allow: []int{200}, Deny: []int{200}}, status: 200, want: false},
		{name: "deny without allow", classifier: Classifier{Deny: []int{404}}, status: 404, want: false},
		{name: "other status without allow", classifier: Classifier{Deny: []int{404}}, status: 500, want: true},
		{name: "length equal to minimum is retained", classifier: Classifier{MinLength: 10}, status: 200, length: 10, want: true},
		{name: "length below minimum", classifier: Classifier{MinLength: 10}, status: 200, length: 9, want: false},
		{name: "all criteria pass", classifier: Classifier{Allow: []int{200, 403}, Deny: []int{500}, MinLength: 1}, status: 403, length: 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.classifier.Retain(tt.status, tt.length); got != tt.want {
				t.Errorf("Retain(%d, %d) = %v, want %v", tt.status, tt.length, got, tt.want)
			}
		})
	}
}
