package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// fakePlan accepts exactly the E.164 strings in valid. National numbers are
// only understood for region "AE".
type fakePlan struct {
	valid    map[string]bool
	possible map[string]bool

	mu    sync.Mutex
	calls []attempt
}

func newFakePlan(valid ...string) *fakePlan {
	p := &fakePlan{valid: map[string]bool{}}
	for _, v := range valid {
		p.valid[v] = true
	}
	return p
}

func (p *fakePlan) Parse(candidate, region string) (*ParsedNumber, error) {
	p.mu.Lock()
	p.calls = append(p.calls, attempt{candidate: candidate, region: region})
	p.mu.Unlock()

	switch {
	case strings.HasPrefix(candidate, "+") && len(candidate) > 1:
		return &ParsedNumber{Handle: candidate}, nil
	case region == "AE" && candidate != "":
		return &ParsedNumber{Handle: "+971" + strings.TrimPrefix(candidate, "0")}, nil
	}
	return nil, errors.New("invalid country code")
}

func (p *fakePlan) IsPossible(n *ParsedNumber) bool {
	if p.possible != nil {
		return p.possible[n.Handle.(string)]
	}
	return true
}

func (p *fakePlan) IsValid(n *ParsedNumber) bool {
	return p.valid[n.Handle.(string)]
}

func (p *fakePlan) Format(n *ParsedNumber) string {
	return n.Handle.(string)
}

func (p *fakePlan) CallingCode(region string) int {
	if region == "AE" {
		return 971
	}
	return 0
}

func TestPhoneNormalizer_AttemptOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []attempt
	}{
		{
			name:  "international number tried as-is only",
			input: "+971501234567",
			want:  []attempt{{candidate: "+971501234567"}},
		},
		{
			name:  "trunk zero then national",
			input: "0501234567",
			want: []attempt{
				{candidate: "+971501234567"},
				{candidate: "0501234567", region: "AE"},
			},
		},
		{
			name:  "bare calling code then national",
			input: "971501234567",
			want: []attempt{
				{candidate: "+971501234567"},
				{candidate: "971501234567", region: "AE"},
			},
		},
		{
			name:  "short mobile then national",
			input: "501234567",
			want: []attempt{
				{candidate: "+971501234567"},
				{candidate: "501234567", region: "AE"},
			},
		},
		{
			name:  "nine digits without mobile prefix goes national only",
			input: "401234567",
			want: []attempt{
				{candidate: "401234567", region: "AE"},
			},
		},
		{
			name:  "single zero skips trunk strategy",
			input: "0",
			want: []attempt{
				{candidate: "0", region: "AE"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := newFakePlan()
			p := NewPhoneNormalizer(plan, "AE", DefaultMobilePrefix)

			if _, err := p.Normalize(tt.input); err == nil {
				t.Fatalf("Normalize(%q) succeeded against an empty plan", tt.input)
			}

			if len(plan.calls) != len(tt.want) {
				t.Fatalf("attempts = %v, want %v", plan.calls, tt.want)
			}
			for i := range tt.want {
				if plan.calls[i] != tt.want[i] {
					t.Errorf("attempt %d = %+v, want %+v", i, plan.calls[i], tt.want[i])
				}
			}
		})
	}
}

func TestPhoneNormalizer_FirstSuccessWins(t *testing.T) {
	plan := newFakePlan("+971501234567")
	p := NewPhoneNormalizer(plan, "AE", DefaultMobilePrefix)

	got, err := p.Normalize("0501234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+971501234567" {
		t.Errorf("Normalize() = %q, want %q", got, "+971501234567")
	}
	if len(plan.calls) != 1 {
		t.Errorf("expected evaluation to stop after first success, got %d attempts", len(plan.calls))
	}
}

func TestPhoneNormalizer_RequiresPossibleAndValid(t *testing.T) {
	plan := newFakePlan("+971501234567")
	plan.possible = map[string]bool{}
	p := NewPhoneNormalizer(plan, "AE", DefaultMobilePrefix)

	if got, err := p.Normalize("+971501234567"); err == nil {
		t.Errorf("Normalize() = %q, want rejection when number is not possible", got)
	}
}

func TestPhoneNormalizer_FailureReason(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantReason    string
		wantSanitized string
	}{
		{
			name:          "letters only",
			input:         "abc",
			wantReason:    "invalid phone: abc -> ",
			wantSanitized: "",
		},
		{
			name:          "empty",
			input:         "",
			wantReason:    "invalid phone:  -> ",
			wantSanitized: "",
		},
		{
			name:          "rejected digits keep sanitized text",
			input:         " 12-34 ",
			wantReason:    "invalid phone:  12-34  -> 1234",
			wantSanitized: "1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPhoneNormalizer(newFakePlan(), "AE", DefaultMobilePrefix)

			got, err := p.Normalize(tt.input)
			if got != "" {
				t.Errorf("Normalize() value = %q alongside error", got)
			}
			if !errors.Is(err, ErrUnparseablePhone) {
				t.Fatalf("error = %v, want ErrUnparseablePhone", err)
			}
			var nerr *Error
			if !errors.As(err, &nerr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if nerr.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", nerr.Reason, tt.wantReason)
			}
			if nerr.Raw != tt.input || nerr.Sanitized != tt.wantSanitized {
				t.Errorf("Raw/Sanitized = %q/%q, want %q/%q", nerr.Raw, nerr.Sanitized, tt.input, tt.wantSanitized)
			}
		})
	}
}

func TestPhoneNormalizer_UnknownRegionHasNoCallingCode(t *testing.T) {
	plan := newFakePlan("+971501234567")
	p := NewPhoneNormalizer(plan, "ZZ", DefaultMobilePrefix)

	if p.CallingCode() != "" {
		t.Fatalf("CallingCode() = %q, want empty", p.CallingCode())
	}
	if _, err := p.Normalize("0501234567"); err == nil {
		t.Error("expected failure without calling code or understood region")
	}
	for _, c := range plan.calls {
		if strings.HasPrefix(c.candidate, "+0") || c.candidate == "+501234567" {
			t.Errorf("unexpected candidate built without calling code: %+v", c)
		}
	}
}

func TestPhoneNormalizer_LibPhoneNumber(t *testing.T) {
	p := NewPhoneNormalizer(LibPhoneNumberPlan{}, DefaultRegion, DefaultMobilePrefix)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "international dialing prefix", input: "00971501234567", want: "+971501234567"},
		{name: "local mobile with trunk zero", input: "0501234567", want: "+971501234567"},
		{name: "canonical is unchanged", input: "+971501234567", want: "+971501234567"},
		{name: "calling code without plus", input: "971501234567", want: "+971501234567"},
		{name: "mobile without trunk zero", input: "501234567", want: "+971501234567"},
		{name: "trunk marker notation", input: "+971 (0)50 123 4567", want: "+971501234567"},
		{name: "letter o typed for zero", input: "o5o 123 4567", want: "+971501234567"},
		{name: "separators", input: "050-123-4567", want: "+971501234567"},
		{name: "other country with plus", input: "+44 20 7183 8750", want: "+442071838750"},
		{name: "letters only", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "lone zero", input: "0", wantErr: true},
		{name: "lone plus", input: "+", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Normalize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Normalize(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPhoneNormalizer_Properties(t *testing.T) {
	p := NewPhoneNormalizer(LibPhoneNumberPlan{}, DefaultRegion, DefaultMobilePrefix)
	numbers := []string{"971501234567", "971521234567", "442071838750"}

	for _, digits := range numbers {
		t.Run(digits, func(t *testing.T) {
			plus, plusErr := p.Normalize("+" + digits)
			zeros, zerosErr := p.Normalize("00" + digits)
			if (plusErr == nil) != (zerosErr == nil) || plus != zeros {
				t.Errorf("00-form (%q, %v) differs from +-form (%q, %v)", zeros, zerosErr, plus, plusErr)
			}
			if plusErr != nil {
				return
			}
			again, err := p.Normalize(plus)
			if err != nil || again != plus {
				t.Errorf("re-normalizing %q gave (%q, %v)", plus, again, err)
			}
		})
	}
}

func TestPhoneNormalizer_ConcurrentUse(t *testing.T) {
	p := NewPhoneNormalizer(LibPhoneNumberPlan{}, DefaultRegion, DefaultMobilePrefix)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Normalize("0501234567")
			if err != nil || got != "+971501234567" {
				errs <- fmt.Errorf("got (%q, %v)", got, err)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
