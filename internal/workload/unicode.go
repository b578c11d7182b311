package workload

import "strings"

// EmojiBasic repeats the common face emoji.
func EmojiBasic() string {
	const emojis = "😀😁😂🤣😃😄😅😆😉😊😋😎😍😘🥰😗😙🥲😚☺️🙂🤗🤩🤔🤨😐😑😶🙄😏😣😥😮🤐😯😪😫🥱😴😌😛😜😝🤤😒😓😔😕🙃🤑😲☹️🙁😖😞😟😤😢😭😦😧😨😩🤯😬😰😱🥵🥶😳🤪😵🥴😠😡🤬😷🤒🤕🤢🤮🤧😇🥳🥺🤠🤡🤥🤫🤭🧐🤓"
	return strings.Repeat(emojis, 20)
}

// EmojiVariationSelectors uses symbols that need VS16 for emoji presentation.
func EmojiVariationSelectors() string {
	emojis := []string{
		"☁️", "☀️", "⭐", "❤️", "✨", "⚡", "⚠️", "✅", "❌",
		"☑️", "✔️", "➡️", "⬅️", "⬆️", "⬇️", "↗️", "↘️", "↙️", "↖️",
		"♠️", "♣️", "♥️", "♦️", "🔴", "🟠", "🟡", "🟢", "🔵", "🟣",
		"⚪", "⚫", "🔶", "🔷", "🔸", "🔹", "▪️", "▫️", "◾", "◽",
	}
	return strings.Repeat(strings.Join(emojis, ""), 50)
}

// EmojiZWJ returns zero-width-joiner sequences (families, professions).
func EmojiZWJ() string {
	emojis := []string{
		"👨‍👩‍👧‍👦", "👨‍👩‍👦‍👦", "👨‍👩‍👧‍👧", "👨‍👨‍👦", "👨‍👨‍👧",
		"👩‍👩‍👦", "👩‍👩‍👧", "👨‍👦", "👨‍👧", "👩‍👦", "👩‍👧",
		"👨‍💻", "👩‍💻", "🧑‍💻", "👨‍🔬", "👩‍🔬", "🧑‍🔬",
		"👨‍🎨", "👩‍🎨", "🧑‍🎨", "👨‍🚀", "👩‍🚀", "🧑‍🚀",
		"👨‍🍳", "👩‍🍳", "🧑‍🍳", "👨‍🏫", "👩‍🏫", "🧑‍🏫",
		"👨‍⚕️", "👩‍⚕️", "🧑‍⚕️", "👨‍🌾", "👩‍🌾", "🧑‍🌾",
		"🏳️‍🌈", "🏳️‍⚧️", "🏴‍☠️",
		"👁️‍🗨️", "🐻‍❄️", "😮‍💨", "😵‍💫", "❤️‍🔥", "❤️‍🩹",
	}
	return strings.Repeat(strings.Join(emojis, ""), 30)
}

// EmojiSkinTones pairs hand emoji with every skin tone modifier.
func EmojiSkinTones() string {
	base := []string{
		"👋", "🤚", "🖐️", "✋", "🖖", "👌", "🤌", "🤏", "✌️", "🤞",
		"🤟", "🤘", "🤙", "👈", "👉", "👆", "🖕", "👇", "☝️", "👍",
		"👎", "✊", "👊", "🤛", "🤜", "👏", "🙌", "👐", "🤲", "🤝",
		"🙏", "✍️", "💅", "🤳", "💪", "🦾", "🦿", "🦵", "🦶", "👂",
	}
	modifiers := []string{"\U0001F3FB", "\U0001F3FC", "\U0001F3FD", "\U0001F3FE", "\U0001F3FF"}
	var b strings.Builder
	for _, e := range base {
		for _, m := range modifiers {
			b.WriteString(e + m)
		}
	}
	return strings.Repeat(b.String(), 5)
}

// EmojiFlags returns regional indicator pairs.
func EmojiFlags() string {
	flags := []string{
		"🇺🇸", "🇬🇧", "🇨🇦", "🇦🇺", "🇩🇪", "🇫🇷", "🇮🇹", "🇪🇸", "🇯🇵", "🇰🇷",
		"🇨🇳", "🇮🇳", "🇧🇷", "🇲🇽", "🇷🇺", "🇿🇦", "🇳🇬", "🇪🇬", "🇦🇷", "🇨🇱",
		"🇸🇪", "🇳🇴", "🇩🇰", "🇫🇮", "🇳🇱", "🇧🇪", "🇨🇭", "🇦🇹", "🇵🇱", "🇺🇦",
	}
	return strings.Repeat(strings.Join(flags, ""), 50)
}

// SurrogatePairs returns characters above U+FFFF (UTF-16 surrogate pairs).
func SurrogatePairs() string {
	chars := []string{
		"𝕳", "𝖊", "𝖑", "𝖑", "𝖔", "𝕎", "𝕠", "𝕣", "𝕝", "𝕕",
		"𝒜", "𝒞", "𝒟", "𝒢", "𝒥", "𝒦", "𝒩", "𝒪", "𝒫", "𝒬",
		"𝔸", "𝔹", "ℂ", "𝔻", "𝔼", "𝔽", "𝔾", "ℍ", "𝕀", "𝕁",
		"🎭", "🎪", "🎫", "🎬", "🎯", "🎰", "🎱", "🎲", "🎳", "🎴",
		"🀀", "🀁", "🀂", "🀃", "🀄", "🀅", "🀆", "🀇", "🀈", "🀉",
		"🁣", "🁤", "🁥", "🁦", "🁧", "🁨", "🁩", "🁪", "🁫", "🁬",
		"🂡", "🂢", "🂣", "🂤", "🂥", "🂦", "🂧", "🂨", "🂩", "🂪",
		"𓀀", "𓀁", "𓀂", "𓀃", "𓀄", "𓀅", "𓀆", "𓀇", "𓀈", "𓀉",
		"𝄞", "𝄢", "𝅗𝅥", "𝅘𝅥", "𝅘𝅥𝅮", "𝅘𝅥𝅯", "𝅘𝅥𝅰", "𝄀", "𝄁", "𝄂",
	}
	return strings.Repeat(strings.Join(chars, ""), 50)
}

// CJK returns double-width Chinese, Japanese and Korean text.
func CJK() string {
	const cjk = "你好世界中文日本語한국어漢字平仮名カタカナ" +
		"東京北京上海香港台北首爾新加坡" +
		"天地人山川海森林花鳥風月雪雨雲星" +
		"愛情友誼幸福健康平安喜樂成功" +
		"あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわをん" +
		"アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン" +
		"가나다라마바사아자차카타파하"
	return strings.Repeat(cjk, 50)
}

// CombiningCharacters stacks combining diacritics on Latin bases.
func CombiningCharacters() string {
	const bases = "aeiounAEIOUN"
	combiners := []string{
		"\u0300", "\u0301", "\u0302", "\u0303", "\u0304", "\u0306", "\u0307",
		"\u0308", "\u030A", "\u030B", "\u030C", "\u0327", "\u0328",
	}
	var b strings.Builder
	for _, base := range bases {
		for _, c := range combiners {
			b.WriteRune(base)
			b.WriteString(c)
		}
	}
	// stacked diacritics
	b.WriteString("a\u0301\u0308e\u0302\u0327o\u0303\u0304u\u0308\u0304")
	return strings.Repeat(b.String(), 100)
}

// GraphemeClusters returns Indic and Thai clusters of several code points.
func GraphemeClusters() string {
	clusters := []string{
		"க்ஷ", "ஸ்ரீ",
		"क्ष", "त्र", "ज्ञ", "श्र",
		"กำ", "ก่", "ก้", "ก๊", "ก๋",
		"لا", "لإ", "لأ", "لآ",
		"각", "난",
	}
	return strings.Repeat(strings.Join(clusters, ""), 200)
}

// BoxDrawing draws light, heavy, double and rounded boxes.
func BoxDrawing() string {
	const boxes = "┌────────────────┐\n│  Light Box     │\n├────────────────┤\n│  Content here  │\n└────────────────┘\n" +
		"┏━━━━━━━━━━━━━━━━┓\n┃  Heavy Box     ┃\n┣━━━━━━━━━━━━━━━━┫\n┃  Content here  ┃\n┗━━━━━━━━━━━━━━━━┛\n" +
		"╔════════════════╗\n║  Double Box    ║\n╠════════════════╣\n║  Content here  ║\n╚════════════════╝\n" +
		"╭────────────────╮\n│  Rounded Box   │\n├────────────────┤\n│  Content here  │\n╰────────────────╯\n"
	return strings.Repeat(boxes, 50)
}

// BlockElements returns shade bars followed by random block characters.
func (s *Source) BlockElements() string {
	blocks := []rune("▀▁▂▃▄▅▆▇█▉▊▋▌▍▎▏▐░▒▓")
	var b strings.Builder
	for _, r := range "░▒▓█" {
		b.WriteString(strings.Repeat(string(r), 20) + "\n")
	}
	for range 20 {
		for range 80 {
			b.WriteRune(choice(s, blocks))
		}
		b.WriteByte('\n')
	}
	return strings.Repeat(b.String(), 20)
}

// Powerline returns prompt segment glyphs from the private use area.
func Powerline() string {
	symbols := []string{
		"\ue0b0", "\ue0b2", "\ue0b1", "\ue0b3", // arrows
		"\ue0b4", "\ue0b6", "\ue0b5", "\ue0b7", // rounded
		"\ue0a0", "\uf418", "\uf126", "\ue725", // git
		"\uf07b", "\uf07c", "\uf115", "\uf413", // folders
		"\uf15b", "\uf15c", "\uf1c9", "\ue7a8", // files
		"\u23f5", "\u23f8", "\u23f9", "\u23fa",
		"\u2605", "\u2606", "\u25cf", "\u25cb",
		"\u2713", "\u2717", "\u26a1", "\u2699",
	}
	return strings.Repeat(strings.Join(symbols, ""), 100)
}

// Braille returns all 256 braille patterns (U+2800..U+28FF) repeated.
func Braille() string {
	var b strings.Builder
	for i := range 256 {
		b.WriteRune(rune(0x2800 + i))
	}
	return strings.Repeat(b.String(), 20)
}

// MathSymbols covers the Mathematical Operators block.
func MathSymbols() string {
	var b strings.Builder
	for r := rune(0x2200); r <= 0x22C3; r++ {
		b.WriteRune(r)
	}
	return strings.Repeat(b.String(), 30)
}
