package normalize

import (
	"testing"

	"github.com/matsen/pubx/internal/publication"
)

func TestStandardizeAuthor(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Q. Public", "J. Q. Public"},
		{"Madonna", "Madonna"},
		{"", ""},
		{"   ", "   "},
		{"  Madonna  ", "Madonna"},
		{"john smith", "J. smith"},
		{"Jean-Luc Picard", "J. Picard"},
		{"3rd Jane Doe", "J. Doe"},
		{"1 2 Doe", "Doe"},
		{"J. Q. Public", "J. Q. Public"},
		{"Ada   King\tLovelace", "A. K. Lovelace"},
		{"émile zola", "É. zola"},
		{"ßtefan Test", "ß. Test"},
		{"ﬁona Apple", "ﬁ. Apple"},
		{"ǆemal Bijedić", "Ǆ. Bijedić"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StandardizeAuthor(tt.input); got != tt.want {
				t.Errorf("StandardizeAuthor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStandardizeAuthors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single", "John Smith", "J. Smith"},
		{"multiple", "John Smith, Jane Q Doe", "J. Smith, J. Q. Doe"},
		{"no spaces after commas", "Alan Turing,Grace Hopper", "A. Turing, G. Hopper"},
		{"empty", "", ""},
		{"blank", "  ", "  "},
		{"empty piece", "Alan Turing,,Grace Hopper", "A. Turing, , G. Hopper"},
		{"last first order is split", "Turing, Alan", "Turing, Alan"},
		{"mononyms", "Madonna, Prince", "Madonna, Prince"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StandardizeAuthors(tt.input); got != tt.want {
				t.Errorf("StandardizeAuthors(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStandardizeVenue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Proceedings of the 2021 International Conference on Machine Learning", "MACHINE LEARNING"},
		{"ACM SIGKDD (2019)", "ACM SIGKDD"},
		{"", ""},
		{"   ", "   "},
		{"Journal of the ACM", "ACM"},
		{"NeurIPS 2020: Workshop on Deep Learning", "NEURIPS DEEP LEARNING"},
		{"IEEE Trans. Pattern Anal.", "IEEE TRANS. PATTERN ANAL."},
		{"Nature", "NATURE"},
		{"2019", ""},
		{"The Conference", ""},
		{"Ontario Theory Symposium", "ONTARIO THEORY"},
		{"PLoS Comput. Biol. 12345", "PLOS COMPUT. BIOL. 12345"},
		{"Bioinformatics - Oxford", "BIOINFORMATICS OXFORD"},
		{"journal OF the royal society", "ROYAL SOCIETY"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StandardizeVenue(tt.input); got != tt.want {
				t.Errorf("StandardizeVenue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	authors := []string{
		"John Q. Public", "Madonna", "", " ", "3rd Jane Doe", "émile zola",
		"Alan Turing,,Grace Hopper", "Turing, Alan", "a b c d e",
		"ßtefan Test", "ﬁona Apple", "ŉ Smith", "ǆemal Bijedić, ßtefan Test",
	}
	for _, a := range authors {
		once := StandardizeAuthor(a)
		if twice := StandardizeAuthor(once); twice != once {
			t.Errorf("StandardizeAuthor not idempotent for %q: %q then %q", a, once, twice)
		}
		once = StandardizeAuthors(a)
		if twice := StandardizeAuthors(once); twice != once {
			t.Errorf("StandardizeAuthors not idempotent for %q: %q then %q", a, once, twice)
		}
	}

	venues := []string{
		"Proceedings of the 2021 International Conference on Machine Learning",
		"ACM SIGKDD (2019)", "Journal of the ACM", "2019", "", "  ",
		"NeurIPS 2020: Workshop on Deep Learning", "of-the-on", "Straße Symposium",
	}
	for _, v := range venues {
		once := StandardizeVenue(v)
		if twice := StandardizeVenue(once); twice != once {
			t.Errorf("StandardizeVenue not idempotent for %q: %q then %q", v, once, twice)
		}
	}
}

func TestForField(t *testing.T) {
	if got := ForField(publication.FieldAuthors)("John Smith"); got != "J. Smith" {
		t.Errorf("ForField(authors) = %q", got)
	}
	if got := ForField(publication.FieldVenue)("Journal of the ACM"); got != "ACM" {
		t.Errorf("ForField(venue) = %q", got)
	}
	if got := ForField(publication.FieldTitle)("  A Title "); got != "  A Title " {
		t.Errorf("ForField(title) should be identity, got %q", got)
	}
}
