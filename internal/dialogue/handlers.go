package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotable/internal/db"
)

const (
	fallbackText = "Przepraszam, nie zrozumiałem. 🤔\n\n" +
		"Spróbuj zapytać np.:\n" +
		"• \"Szukam włoskiej restauracji\"\n" +
		"• \"Gdzie są wolne miejsca?\"\n" +
		"• \"Pokaż listę lokali\"\n" +
		"• \"Opowiedz o Neonie\""

	unsureText = "Przepraszam, nie jestem pewien jak odpowiedzieć. 🤔\n\n" +
		"Mogę pomóc w:\n" +
		"• Wyszukiwaniu restauracji\n" +
		"• Sprawdzaniu dostępności stolików\n" +
		"• Podaniu informacji o lokalach"

	availabilityErrorText = "❌ Nie udało mi się pobrać informacji o dostępności. Spróbuj ponownie później."
)

func (r *Router) templated(_ context.Context, t *turn) (string, error) {
	return r.engine.Response(t.class.Tag), nil
}

func (r *Router) fallback(_ context.Context, _ *turn) (string, error) {
	return fallbackText, nil
}

func (r *Router) resetAndRespond(_ context.Context, t *turn) (string, error) {
	t.state = t.state.Reset()
	return r.engine.Response(t.class.Tag), nil
}

func (r *Router) bookTable(_ context.Context, t *turn) (string, error) {
	text := r.engine.Response(t.class.Tag)
	if name := t.entities.Restaurant; name != "" {
		if p, ok := r.catalog.Get(name); ok {
			text += fmt.Sprintf("\n\n📞 Telefon do %s: %s", name, p.Phone)
		}
	}
	return text, nil
}

func (r *Router) listRestaurants(_ context.Context, t *turn) (string, error) {
	t.state = t.state.Reset()

	var b strings.Builder
	b.WriteString("🍽️ **Aktualnie dostępne restauracje:**\n\n")
	for i, p := range r.catalog.Profiles() {
		fmt.Fprintf(&b, "%d. %s **%s** - %s\n", i+1, p.Icon, p.Name, p.Summary)
	}
	b.WriteString("\nNapisz nazwę wybranego lokalu, aby sprawdzić szczegóły lub dostępność.")
	return b.String(), nil
}

func (r *Router) searchCuisine(ctx context.Context, t *turn) (string, error) {
	t.state = t.state.Reset()

	cuisine := t.entities.Cuisine
	if cuisine == "" {
		var b strings.Builder
		b.WriteString("🤔 Jakiej kuchni szukasz?\n\nMamy do wyboru:")
		byCuisine := r.catalog.RestaurantsByCuisine()
		for _, c := range r.catalog.Cuisines() {
			fmt.Fprintf(&b, "\n• %s **%s** (%s)", r.catalog.Icon(c), c, strings.Join(byCuisine[c], ", "))
		}
		return b.String(), nil
	}

	found, err := r.repo.RestaurantsByCuisine(ctx, cuisine)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		r.logger.Warn("search by cuisine failed", "cuisine", cuisine, "error", err)
		return availabilityErrorText, nil
	}
	if len(found) == 0 {
		return fmt.Sprintf("😔 Przepraszam, nie znalazłem restauracji typu **%s** w naszej bazie.", cuisine), nil
	}

	t.state.LastRestaurant = found[0].Name
	t.state.LastCuisine = cuisine

	lines := []string{fmt.Sprintf("🍴 Restauracje z kuchnią **%s**:\n", cuisine)}
	for _, rest := range found {
		lines = append(lines, fmt.Sprintf("• **%s** (%s Wolne stoliki: %d)", rest.Name, statusIcon(rest.AvailableTables), rest.AvailableTables))
	}
	lines = append(lines, "\n💡 Chcesz poznać szczegóły któregoś lokalu?")
	return strings.Join(lines, "\n"), nil
}

func (r *Router) restaurantInfo(_ context.Context, t *turn) (string, error) {
	name := t.restaurant()
	if name == "" {
		var b strings.Builder
		b.WriteString("O której restauracji chcesz posłuchać? 🤔\n\nDostępne lokale:")
		for _, p := range r.catalog.Profiles() {
			fmt.Fprintf(&b, "\n• %s %s", p.Icon, p.Name)
		}
		return b.String(), nil
	}

	t.state.LastRestaurant = name
	p, ok := r.catalog.Get(name)
	if !ok || p.Description == "" {
		return fmt.Sprintf("❌ Brak opisu dla restauracji %s.", name), nil
	}
	return fmt.Sprintf("%s\n\n📍 **Adres:** %s\n🕒 **Godziny:** %s", p.Description, orMissing(p.Address), orMissing(p.Hours)), nil
}

func (r *Router) checkSeats(ctx context.Context, t *turn) (string, error) {
	if t.unknown != "" && t.entities.Restaurant == "" {
		text := "🧐 Wygląda na to, że pytasz o lokal, którego nie mam w bazie.\n\nObsługuję tylko:"
		for _, name := range r.catalog.Names() {
			text += "\n• " + name
		}
		return text + r.suggestionLine(t), nil
	}

	name := t.restaurant()
	if name == "" {
		return r.allSeats(ctx)
	}

	rest, err := r.repo.CheckAvailability(ctx, name)
	if errors.Is(err, db.ErrRestaurantNotFound) {
		return fmt.Sprintf("❌ Nie znalazłem restauracji o nazwie %s.", name), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		r.logger.Warn("check availability failed", "restaurant", name, "error", err)
		return availabilityErrorText, nil
	}

	t.state.LastRestaurant = name
	return fmt.Sprintf("%s W restauracji **%s** mamy obecnie **%d** wolnych stolików.", statusIcon(rest.AvailableTables), name, rest.AvailableTables), nil
}

func (r *Router) allSeats(ctx context.Context) (string, error) {
	all, err := r.repo.ListRestaurants(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		r.logger.Warn("list restaurants failed", "error", err)
		return availabilityErrorText, nil
	}
	if len(all) == 0 {
		return availabilityErrorText, nil
	}

	lines := []string{"📊 **Stan dostępności stolików:**\n"}
	for _, rest := range all {
		if _, active := r.catalog.Get(rest.Name); !active {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s **%s**: %d wolnych", statusIcon(rest.AvailableTables), rest.Name, rest.AvailableTables))
	}
	lines = append(lines, "\n💡 Podaj nazwę lokalu, aby sprawdzić szczegóły.")
	return strings.Join(lines, "\n"), nil
}

func (r *Router) checkContact(_ context.Context, t *turn) (string, error) {
	name := t.restaurant()
	if name == "" {
		return "📞 Podaj nazwę restauracji, a podam Ci dane kontaktowe.\n\nDostępne lokale: " +
			strings.Join(r.catalog.Names(), ", "), nil
	}
	p, ok := r.catalog.Get(name)
	if !ok {
		return fmt.Sprintf("❌ Nie mam danych kontaktowych dla %s.", name), nil
	}
	t.state.LastRestaurant = name
	return fmt.Sprintf("📍 **%s - Dane kontaktowe:**\n\n🏠 **Adres:** %s\n📞 **Telefon:** %s\n🕒 **Godziny otwarcia:** %s",
		name, p.Address, p.Phone, p.Hours), nil
}

func (r *Router) checkHours(_ context.Context, t *turn) (string, error) {
	name := t.restaurant()
	if name == "" {
		var b strings.Builder
		b.WriteString("🕒 **Typowe godziny otwarcia naszych lokali:**\n")
		for _, p := range r.catalog.Profiles() {
			fmt.Fprintf(&b, "\n• %s: %s", p.Name, p.Hours)
		}
		b.WriteString("\n\nO który lokal pytasz konkretnie?")
		return b.String(), nil
	}
	p, ok := r.catalog.Get(name)
	if !ok {
		return fmt.Sprintf("❌ Nie mam informacji o godzinach dla %s.", name), nil
	}
	t.state.LastRestaurant = name
	return fmt.Sprintf("🕒 **%s** jest otwarte: **%s**", name, p.Hours), nil
}

func (r *Router) checkCapacity(_ context.Context, t *turn) (string, error) {
	name := t.restaurant()
	if name == "" {
		var b strings.Builder
		b.WriteString("🏠 **Pojemność naszych lokali:**\n")
		for _, p := range r.catalog.Profiles() {
			fmt.Fprintf(&b, "\n• %s: %d stolików", p.Name, p.MaxTables)
		}
		b.WriteString("\n\nO który lokal pytasz?")
		return b.String(), nil
	}
	p, ok := r.catalog.Get(name)
	if !ok {
		return fmt.Sprintf("❌ Nie mam danych o pojemności dla %s.", name), nil
	}
	t.state.LastRestaurant = name
	return fmt.Sprintf("🏠 **%s** posiada łącznie **%d** stolików.\n\nCechy lokalu: %s",
		name, p.MaxTables, strings.Join(p.Features, ", ")), nil
}

// unhandled covers tags without a dedicated handler, e.g. a custom corpus.
func (r *Router) unhandled(_ context.Context, t *turn) (string, error) {
	if t.unknown != "" && t.entities.Restaurant == "" {
		var b strings.Builder
		b.WriteString("🧐 Przepraszam, nie rozpoznaję tej nazwy.\n\nObsługuję następujące lokale:")
		for _, p := range r.catalog.Profiles() {
			fmt.Fprintf(&b, "\n• %s %s", p.Icon, p.Name)
		}
		b.WriteString("\n\nCzy chodziło Ci o jeden z nich?")
		return b.String() + r.suggestionLine(t), nil
	}
	if len(r.engine.Responses(t.class.Tag)) == 0 {
		return unsureText, nil
	}
	return r.engine.Response(t.class.Tag), nil
}

func (r *Router) suggestionLine(t *turn) string {
	if t.suggestion == "" {
		return ""
	}
	return fmt.Sprintf("\n\nCzy chodziło Ci o **%s**?", t.suggestion)
}

func statusIcon(tables int) string {
	if tables > 0 {
		return "🟢"
	}
	return "🔴"
}

func orMissing(s string) string {
	if s == "" {
		return "Brak danych"
	}
	return s
}
