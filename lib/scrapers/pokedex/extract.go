package pokedex

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"pokedex-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Extract converts one pokedex page into a Result. Every forme-scoped
// field is keyed by forme label and must produce exactly one entry per
// declared forme, a count mismatch is a fatal extraction error rather
// than a silently truncated zip.
func Extract(ctx context.Context, pageUrl string, doc *goquery.Document) (Result, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	name, number, err := extractTitle(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract title")
		return Result{}, err
	}

	labels := extractFormes(doc, name)
	images, err := extractImages(doc, labels)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	descriptions, err := extractDescriptions(doc, labels)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	types, err := extractTypes(ctx, doc, labels)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	info, err := extractFormeInfo(doc, labels)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	formes := make([]Forme, 0, len(labels))
	for _, label := range labels {
		formes = append(formes, Forme{
			Name:         label,
			Image:        images[label],
			Descriptions: descriptions[label],
			Types:        types[label],
			Height:       info[label].height,
			Weight:       info[label].weight,
			Category:     info[label].category,
			Genders:      info[label].genders,
			Abilities:    info[label].abilities,
		})
	}

	lineage, err := extractEvolutions(doc)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	nextUrl, err := extractNextUrl(doc)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	return Result{
		Pokemon: Pokemon{
			Name:       name,
			Number:     number,
			Url:        pageUrl,
			Formes:     formes,
			Evolutions: lineage,
		},
		Abilities: extractAbilities(doc),
		NextUrl:   nextUrl,
	}, nil
}

func extractTitle(doc *goquery.Document) (string, int, error) {
	title := doc.Find(".pokedex-pokemon-pagination-title div").First()
	if title.Length() == 0 {
		return "", 0, fmt.Errorf("page has no pagination title")
	}

	name := htmlutil.Clean(htmlutil.FirstText(title))
	if name == "" {
		return "", 0, fmt.Errorf("pagination title holds no name")
	}

	numberText := strings.Trim(title.Find("span").First().Text(), " \n#")
	number, err := strconv.Atoi(numberText)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse pokedex number %q: %w", numberText, err)
	}
	return name, number, nil
}

// extractFormes returns the ordered forme labels declared on the page.
// A page without forme markup declares a single implicit forme named
// after the pokemon itself.
func extractFormes(doc *goquery.Document, name string) []string {
	var labels []string
	doc.Find("#formes").Children().Each(func(_ int, sel *goquery.Selection) {
		labels = append(labels, htmlutil.Clean(sel.Text()))
	})
	if len(labels) == 0 {
		labels = []string{name}
	}
	return labels
}

// zipFormes pairs one positional extraction per forme label, in label
// order. The page lays these regions out in the same order it declares
// formes, anything other than a one-to-one pairing means the page no
// longer matches our expectations.
func zipFormes[T any](field string, labels []string, values []T) (map[string]T, error) {
	if len(values) != len(labels) {
		return nil, fmt.Errorf(
			"%s: extracted %d entries for %d formes",
			field, len(values), len(labels),
		)
	}
	out := make(map[string]T, len(labels))
	for i, label := range labels {
		out[label] = values[i]
	}
	return out, nil
}

func extractImages(doc *goquery.Document, labels []string) (map[string]string, error) {
	var srcs []string
	doc.Find(".profile-images img").Each(func(_ int, sel *goquery.Selection) {
		srcs = append(srcs, sel.AttrOr("src", ""))
	})
	return zipFormes("images", labels, srcs)
}

func extractDescriptions(doc *goquery.Document, labels []string) (map[string][]string, error) {
	var all [][]string
	doc.Find(".version-descriptions").Each(func(_ int, sel *goquery.Selection) {
		var descriptions []string
		sel.Find("p").Each(func(_ int, p *goquery.Selection) {
			descriptions = append(descriptions, htmlutil.Clean(p.Text()))
		})
		all = append(all, descriptions)
	})
	out, err := zipFormes("descriptions", labels, all)
	if err != nil {
		return nil, err
	}
	for label, descriptions := range out {
		if len(descriptions) == 0 {
			return nil, fmt.Errorf("descriptions: forme %q has none", label)
		}
	}
	return out, nil
}

func extractTypes(ctx context.Context, doc *goquery.Document, labels []string) (map[string][]string, error) {
	var all [][]string
	doc.Find(".dtm-type").Each(func(_ int, sel *goquery.Selection) {
		var types []string
		sel.Find("li").Each(func(_ int, li *goquery.Selection) {
			types = append(types, htmlutil.Clean(li.Text()))
		})
		all = append(all, types)
	})
	out, err := zipFormes("types", labels, all)
	if err != nil {
		return nil, err
	}
	for label, types := range out {
		if len(types) == 0 {
			return nil, fmt.Errorf("types: forme %q has none", label)
		}
		if len(types) > 2 {
			slog.WarnContext(ctx, "forme declares more than two types", "forme", label, "types", types)
		}
	}
	return out, nil
}

type formeInfo struct {
	height    string
	weight    string
	category  string
	genders   []string
	abilities []string
}

// extractFormeInfo reads the attribute table each forme carries:
// height, weight, gender, category and the optional trailing ability
// entries, in that order.
func extractFormeInfo(doc *goquery.Document, labels []string) (map[string]formeInfo, error) {
	var all []formeInfo
	var innerErr error
	doc.Find(".pokemon-ability-info").Each(func(i int, sel *goquery.Selection) {
		values := sel.Find(".attribute-value")
		if values.Length() < 4 {
			innerErr = fmt.Errorf(
				"forme info: table %d holds %d attributes, need at least 4",
				i, values.Length(),
			)
			return
		}

		info := formeInfo{
			height:   htmlutil.Clean(values.Eq(0).Text()),
			weight:   htmlutil.Clean(values.Eq(1).Text()),
			genders:  extractGenders(values.Eq(2)),
			category: htmlutil.Clean(values.Eq(3).Text()),
		}
		// anything after the fixed four is an ability reference,
		// a forme without an ability section simply has none
		values.Slice(4, values.Length()).Each(func(_ int, v *goquery.Selection) {
			info.abilities = append(info.abilities, htmlutil.Clean(v.Text()))
		})
		all = append(all, info)
	})
	if innerErr != nil {
		return nil, innerErr
	}
	return zipFormes("forme info", labels, all)
}

// extractGenders classifies the gender cell. The site encodes gender
// either as icon markers whose style class names the symbol, or as a
// plain text label, never both at once.
func extractGenders(cell *goquery.Selection) []string {
	var genders []string
	cell.Find(".icon").Each(func(_ int, icon *goquery.Selection) {
		if strings.Contains(icon.AttrOr("class", ""), "female") {
			genders = append(genders, "Female")
		} else {
			genders = append(genders, "Male")
		}
	})
	if len(genders) == 0 {
		genders = append(genders, htmlutil.Clean(cell.Text()))
	}
	return genders
}

// extractAbilities reads every ability detail block on the page. The
// same ability may appear under several formes, only the first
// occurrence is kept.
func extractAbilities(doc *goquery.Document) []Ability {
	var abilities []Ability
	seen := map[string]bool{}
	doc.Find(".pokemon-ability-info-detail").Each(func(_ int, sel *goquery.Selection) {
		name := htmlutil.Clean(sel.Find("h3").First().Text())
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		abilities = append(abilities, Ability{
			Name:        name,
			Description: htmlutil.Clean(sel.Find("p").First().Text()),
		})
	})
	return abilities
}

// extractEvolutions reads the raw lineage taxonomy. Validation of its
// shape happens when it is flattened into edges at load time.
func extractEvolutions(doc *goquery.Document) (Lineage, error) {
	profile := doc.Find(".evolution-profile").First()
	if profile.Length() == 0 {
		return Lineage{}, nil
	}

	lineage := Lineage{}
	var innerErr error
	profile.Children().Each(func(_ int, group *goquery.Selection) {
		classes := strings.Fields(group.AttrOr("class", ""))
		if len(classes) == 0 {
			innerErr = fmt.Errorf("evolution group carries no position class")
			return
		}
		position := classes[0]

		var names []string
		group.Find("h3").Each(func(_ int, h3 *goquery.Selection) {
			// the heading also holds the pokedex number in a child
			// element, only the direct text is the name
			names = append(names, htmlutil.Clean(htmlutil.FirstText(h3)))
		})
		lineage[position] = names
	})
	if innerErr != nil {
		return nil, innerErr
	}
	return lineage, nil
}

func extractNextUrl(doc *goquery.Document) (string, error) {
	href := doc.Find("a.next").First().AttrOr("href", "")
	if href == "" {
		return "", fmt.Errorf("page has no next link")
	}
	return "https://www.pokemon.com" + href, nil
}
