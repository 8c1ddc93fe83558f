package server

import (
	_ "embed"
	"strconv"
	"strings"
)

// usageGuide is served as the config://usage resource.
//
//go:embed usage.md
var usageGuide string

// docInfoScript collects the active document overview. It assigns a
// plain object to __result; the envelope handles serialization.
const docInfoScript = `var doc = app.activeDocument;
var sel = app.selection;
var selTypes = [];
for (var i = 0; i < sel.length && i < 20; i++) {
    selTypes.push(sel[i].constructor.name);
}

__result = {
    name: doc.name,
    fullName: doc.fullName ? doc.fullName.fsName : "(unsaved)",
    saved: doc.saved,
    modified: doc.modified,
    pages: doc.pages.length,
    spreads: doc.spreads.length,
    stories: doc.stories.length,
    allPageItems: doc.allPageItems.length,
    textFrames: doc.textFrames.length,
    rectangles: doc.rectangles.length,
    ovals: doc.ovals.length,
    graphicLines: doc.graphicLines.length,
    images: doc.allGraphics.length,
    links: doc.links.length,
    layers: doc.layers.length,
    masterSpreads: doc.masterSpreads.length,
    paragraphStyles: doc.allParagraphStyles.length,
    characterStyles: doc.allCharacterStyles.length,
    objectStyles: doc.allObjectStyles.length,
    swatches: doc.swatches.length,
    selection_count: sel.length,
    selection_types: selTypes,
    documentPreferences: {
        pageWidth: doc.documentPreferences.pageWidth,
        pageHeight: doc.documentPreferences.pageHeight,
        facingPages: doc.documentPreferences.facingPages,
        pagesPerDocument: doc.documentPreferences.pagesPerDocument
    }
};
`

const selectionBasicScript = `var sel = app.selection;
var items = [];
for (var i = 0; i < sel.length && i < 50; i++) {
    var obj = sel[i];
    var item = {
        index: i,
        type: obj.constructor.name,
        id: obj.id || -1
    };
    try { item.name = obj.name || ""; } catch(e) { item.name = ""; }
    try {
        if (obj.geometricBounds) {
            var b = obj.geometricBounds;
            item.bounds = {top: b[0], left: b[1], bottom: b[2], right: b[3]};
        }
    } catch(e) {}
    try {
        if (obj.contents && typeof obj.contents === 'string') {
            item.content_preview = obj.contents.substring(0, 200);
        }
    } catch(e) {}
    items.push(item);
}
__result = {count: sel.length, items: items};
`

const selectionFullScript = `var sel = app.selection;
var items = [];
for (var i = 0; i < sel.length && i < 50; i++) {
    var obj = sel[i];
    var item = {
        index: i,
        type: obj.constructor.name,
        id: obj.id || -1
    };
    try { item.name = obj.name || ""; } catch(e) { item.name = ""; }
    try {
        if (obj.geometricBounds) {
            var b = obj.geometricBounds;
            item.bounds = {top: b[0], left: b[1], bottom: b[2], right: b[3]};
        }
    } catch(e) {}
    try {
        if (obj.contents && typeof obj.contents === 'string') {
            item.content_preview = obj.contents.substring(0, 500);
        }
    } catch(e) {}
    try {
        if (obj.appliedParagraphStyle) {
            item.paragraphStyle = obj.appliedParagraphStyle.name;
        }
    } catch(e) {}
    try {
        if (obj.appliedCharacterStyle) {
            item.characterStyle = obj.appliedCharacterStyle.name;
        }
    } catch(e) {}
    try {
        if (obj.appliedObjectStyle) {
            item.objectStyle = obj.appliedObjectStyle.name;
        }
    } catch(e) {}
    try {
        if (obj.fillColor) {
            item.fillColor = obj.fillColor.name;
        }
    } catch(e) {}
    try {
        if (obj.strokeColor) {
            item.strokeColor = obj.strokeColor.name;
        }
    } catch(e) {}
    try {
        if (obj.parentPage) {
            item.page = obj.parentPage.name;
        }
    } catch(e) {}
    items.push(item);
}
__result = {count: sel.length, items: items};
`

// undoScriptTemplate pops entries off the active document's undo
// history. The step count is substituted in before dispatch.
const undoScriptTemplate = `var doc = app.activeDocument;
var results = [];
var steps = $STEPS$;
for (var i = 0; i < steps; i++) {
    try {
        var label = doc.undoHistory.length > 0 ? doc.undoHistory[0] : "(empty)";
        doc.undo();
        results.push(label);
    } catch(e) {
        break;
    }
}
__result = {steps_undone: results.length, labels: results};
`

func undoScript(steps int) string {
	return strings.Replace(undoScriptTemplate, "$STEPS$", strconv.Itoa(steps), 1)
}
