package mutation

import (
	"context"
	"errors"
	"testing"
)

func TestForm_SuccessClosesAndClearsTarget(t *testing.T) {
	var form Form[testCategory]
	form.Edit(testCategory{ID: "1", Name: "Eletrônicos"})

	if !form.IsOpen() {
		t.Fatal("expected form to be open")
	}
	if target, ok := form.Target(); !ok || target.ID != "1" {
		t.Fatalf("expected edit target 1, got %+v", target)
	}

	var chained testCategory
	_, err := Run(context.Background(), New(&mockInvalidator{}), Mutation[testCategory]{
		Resource: "categories",
		Kind:     KindUpdate,
		ID:       "1",
		Do:       func(context.Context) (testCategory, error) { return testCategory{ID: "1", Name: "Livros"}, nil },
	}, form.Hooks(Hooks[testCategory]{OnSuccess: func(c testCategory) { chained = c }}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if form.IsOpen() {
		t.Error("expected form to be closed")
	}
	if _, ok := form.Target(); ok {
		t.Error("expected edit target to be cleared")
	}
	if chained.Name != "Livros" {
		t.Errorf("expected chained hook to run, got %+v", chained)
	}
}

func TestForm_FailureKeepsFormOpen(t *testing.T) {
	var form Form[testCategory]
	form.Open()
	boom := errors.New("name already taken")

	_, err := Run(context.Background(), New(&mockInvalidator{}), Mutation[testCategory]{
		Resource: "categories",
		Kind:     KindCreate,
		Do:       func(context.Context) (testCategory, error) { return testCategory{}, boom },
	}, form.Hooks(Hooks[testCategory]{}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if !form.IsOpen() {
		t.Error("expected form to stay open")
	}
	if !errors.Is(form.Err(), boom) {
		t.Errorf("expected form error boom, got %v", form.Err())
	}

	form.Close()
	if form.Err() != nil || form.IsOpen() {
		t.Error("expected Close to reset the form")
	}
}
