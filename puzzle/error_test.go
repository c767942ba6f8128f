package puzzle

import (
	"fmt"
	"strings"
	"testing"
)

// Make sure error messages never panic and are never empty.  The
// testing of individual cases we leave to the functional testing
// done of other files.
func TestErrorNoPanicNoEmpty(t *testing.T) {
	defer (func() {
		if e := recover(); e != nil {
			t.Fatalf("Panic during testing: %v", e)
		}
	})()
	for sc := int(UnknownScope); sc <= int(MaxScope); sc++ {
		for st := int(UnknownStructure); st < int(MaxStructure); st++ {
			for at := int(UnknownAttribute); at < int(MaxAttribute); at++ {
				for co := int(UnknownCondition); co < int(MaxCondition); co++ {
					e := Error{
						Scope:     ErrorScope(sc),
						Structure: ErrorStructure(st),
						Attribute: ErrorAttribute(at),
						Condition: ErrorCondition(co),
					}
					if m := e.Error(); len(m) == 0 {
						t.Errorf("Empty error message for %+v", e)
					}
				}
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err    Error
		expect string
	}{
		{indexError(17, 16), "Invalid argument: Index (17): Must be less than the cell count (16)"},
		{kindError(Kind(9)), "Invalid piece: Piece kind (9): Not a kind with a connector catalog"},
		{Error{Message: "custom"}, "custom"},
	}
	for _, test := range tests {
		if m := test.err.Error(); m != test.expect {
			t.Errorf("Message was %q, expected %q", m, test.expect)
		}
	}
}

func TestIsGenerationExhausted(t *testing.T) {
	exhausted := Error{Scope: GeneratorScope, Condition: GenerationExhaustedCondition, Values: ErrorData{3}}
	if !strings.Contains(exhausted.Error(), "3 attempts") {
		t.Errorf("Message was %q", exhausted.Error())
	}
	if !IsGenerationExhausted(exhausted) {
		t.Errorf("Didn't recognize %v", exhausted)
	}
	if !IsGenerationExhausted(fmt.Errorf("new game: %w", exhausted)) {
		t.Errorf("Didn't recognize wrapped %v", exhausted)
	}
	if IsGenerationExhausted(indexError(1, 1)) || IsGenerationExhausted(nil) {
		t.Errorf("Recognized the wrong errors")
	}
}
