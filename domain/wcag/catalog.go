package wcag

// Catalog is the full WCAG 2.1 success-criterion list in specification
// order: principles in canonical order, criteria numerically within each.
var Catalog = []Criterion{
	// Principle 1: Perceivable
	{ID: "1.1.1", Title: "Non-text Content", Level: LevelA, Principle: Perceivable},
	{ID: "1.2.1", Title: "Audio-only and Video-only (Prerecorded)", Level: LevelA, Principle: Perceivable},
	{ID: "1.2.2", Title: "Captions (Prerecorded)", Level: LevelA, Principle: Perceivable},
	{ID: "1.2.3", Title: "Audio Description or Media Alternative (Prerecorded)", Level: LevelA, Principle: Perceivable},
	{ID: "1.2.4", Title: "Captions (Live)", Level: LevelAA, Principle: Perceivable},
	{ID: "1.2.5", Title: "Audio Description (Prerecorded)", Level: LevelAA, Principle: Perceivable},
	{ID: "1.2.6", Title: "Sign Language (Prerecorded)", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.2.7", Title: "Extended Audio Description (Prerecorded)", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.2.8", Title: "Media Alternative (Prerecorded)", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.2.9", Title: "Audio-only (Live)", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.3.1", Title: "Info and Relationships", Level: LevelA, Principle: Perceivable},
	{ID: "1.3.2", Title: "Meaningful Sequence", Level: LevelA, Principle: Perceivable},
	{ID: "1.3.3", Title: "Sensory Characteristics", Level: LevelA, Principle: Perceivable},
	{ID: "1.3.4", Title: "Orientation", Level: LevelAA, Principle: Perceivable},
	{ID: "1.3.5", Title: "Identify Input Purpose", Level: LevelAA, Principle: Perceivable},
	{ID: "1.3.6", Title: "Identify Purpose", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.4.1", Title: "Use of Color", Level: LevelA, Principle: Perceivable},
	{ID: "1.4.2", Title: "Audio Control", Level: LevelA, Principle: Perceivable},
	{ID: "1.4.3", Title: "Contrast (Minimum)", Level: LevelAA, Principle: Perceivable},
	{ID: "1.4.4", Title: "Resize Text", Level: LevelAA, Principle: Perceivable},
	{ID: "1.4.5", Title: "Images of Text", Level: LevelAA, Principle: Perceivable},
	{ID: "1.4.6", Title: "Contrast (Enhanced)", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.4.7", Title: "Low or No Background Audio", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.4.8", Title: "Visual Presentation", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.4.9", Title: "Images of Text (No Exception)", Level: LevelAAA, Principle: Perceivable},
	{ID: "1.4.10", Title: "Reflow", Level: LevelAA, Principle: Perceivable},
	{ID: "1.4.11", Title: "Non-text Contrast", Level: LevelAA, Principle: Perceivable},
	{ID: "1.4.12", Title: "Text Spacing", Level: LevelAA, Principle: Perceivable},
	{ID: "1.4.13", Title: "Content on Hover or Focus", Level: LevelAA, Principle: Perceivable},

	// Principle 2: Operable
	{ID: "2.1.1", Title: "Keyboard", Level: LevelA, Principle: Operable},
	{ID: "2.1.2", Title: "No Keyboard Trap", Level: LevelA, Principle: Operable},
	{ID: "2.1.3", Title: "Keyboard (No Exception)", Level: LevelAAA, Principle: Operable},
	{ID: "2.1.4", Title: "Character Key Shortcuts", Level: LevelA, Principle: Operable},
	{ID: "2.2.1", Title: "Timing Adjustable", Level: LevelA, Principle: Operable},
	{ID: "2.2.2", Title: "Pause, Stop, Hide", Level: LevelA, Principle: Operable},
	{ID: "2.2.3", Title: "No Timing", Level: LevelAAA, Principle: Operable},
	{ID: "2.2.4", Title: "Interruptions", Level: LevelAAA, Principle: Operable},
	{ID: "2.2.5", Title: "Re-authenticating", Level: LevelAAA, Principle: Operable},
	{ID: "2.2.6", Title: "Timeouts", Level: LevelAAA, Principle: Operable},
	{ID: "2.3.1", Title: "Three Flashes or Below Threshold", Level: LevelA, Principle: Operable},
	{ID: "2.3.2", Title: "Three Flashes", Level: LevelAAA, Principle: Operable},
	{ID: "2.3.3", Title: "Animation from Interactions", Level: LevelAAA, Principle: Operable},
	{ID: "2.4.1", Title: "Bypass Blocks", Level: LevelA, Principle: Operable},
	{ID: "2.4.2", Title: "Page Titled", Level: LevelA, Principle: Operable},
	{ID: "2.4.3", Title: "Focus Order", Level: LevelA, Principle: Operable},
	{ID: "2.4.4", Title: "Link Purpose (In Context)", Level: LevelA, Principle: Operable},
	{ID: "2.4.5", Title: "Multiple Ways", Level: LevelAA, Principle: Operable},
	{ID: "2.4.6", Title: "Headings and Labels", Level: LevelAA, Principle: Operable},
	{ID: "2.4.7", Title: "Focus Visible", Level: LevelAA, Principle: Operable},
	{ID: "2.4.8", Title: "Location", Level: LevelAAA, Principle: Operable},
	{ID: "2.4.9", Title: "Link Purpose (Link Only)", Level: LevelAAA, Principle: Operable},
	{ID: "2.4.10", Title: "Section Headings", Level: LevelAAA, Principle: Operable},
	{ID: "2.5.1", Title: "Pointer Gestures", Level: LevelA, Principle: Operable},
	{ID: "2.5.2", Title: "Pointer Cancellation", Level: LevelA, Principle: Operable},
	{ID: "2.5.3", Title: "Label in Name", Level: LevelA, Principle: Operable},
	{ID: "2.5.4", Title: "Motion Actuation", Level: LevelA, Principle: Operable},
	{ID: "2.5.5", Title: "Target Size", Level: LevelAAA, Principle: Operable},
	{ID: "2.5.6", Title: "Concurrent Input Mechanisms", Level: LevelAAA, Principle: Operable},

	// Principle 3: Understandable
	{ID: "3.1.1", Title: "Language of Page", Level: LevelA, Principle: Understandable},
	{ID: "3.1.2", Title: "Language of Parts", Level: LevelAA, Principle: Understandable},
	{ID: "3.1.3", Title: "Unusual Words", Level: LevelAAA, Principle: Understandable},
	{ID: "3.1.4", Title: "Abbreviations", Level: LevelAAA, Principle: Understandable},
	{ID: "3.1.5", Title: "Reading Level", Level: LevelAAA, Principle: Understandable},
	{ID: "3.1.6", Title: "Pronunciation", Level: LevelAAA, Principle: Understandable},
	{ID: "3.2.1", Title: "On Focus", Level: LevelA, Principle: Understandable},
	{ID: "3.2.2", Title: "On Input", Level: LevelA, Principle: Understandable},
	{ID: "3.2.3", Title: "Consistent Navigation", Level: LevelAA, Principle: Understandable},
	{ID: "3.2.4", Title: "Consistent Identification", Level: LevelAA, Principle: Understandable},
	{ID: "3.2.5", Title: "Change on Request", Level: LevelAAA, Principle: Understandable},
	{ID: "3.3.1", Title: "Error Identification", Level: LevelA, Principle: Understandable},
	{ID: "3.3.2", Title: "Labels or Instructions", Level: LevelA, Principle: Understandable},
	{ID: "3.3.3", Title: "Error Suggestion", Level: LevelAA, Principle: Understandable},
	{ID: "3.3.4", Title: "Error Prevention (Legal, Financial, Data)", Level: LevelAA, Principle: Understandable},
	{ID: "3.3.5", Title: "Help", Level: LevelAAA, Principle: Understandable},
	{ID: "3.3.6", Title: "Error Prevention (All)", Level: LevelAAA, Principle: Understandable},

	// Principle 4: Robust
	{ID: "4.1.1", Title: "Parsing", Level: LevelA, Principle: Robust},
	{ID: "4.1.2", Title: "Name, Role, Value", Level: LevelA, Principle: Robust},
	{ID: "4.1.3", Title: "Status Messages", Level: LevelAA, Principle: Robust},
}
