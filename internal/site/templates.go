package site

// layoutTemplate is the html/template wrapping every page. It dispatches to
// the body template of the page kind. A template directory may replace it
// with its own layout.html.
const layoutTemplate = `<!DOCTYPE html>
{{.Notice}}
<html lang="{{.Lang}}" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="generator" content="treepages">
  <meta name="treepages-model" content="{{.Fingerprint}}">
  <title>{{.Title}}</title>
  {{if .Stylesheet}}<style>{{.Stylesheet}}</style>{{else}}<link rel="stylesheet" href="{{.Base}}assets/style.css">{{end}}
</head>
<body data-base="{{.Base}}">
  {{if .Page.Sidebar}}
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      <h2 class="project-title"><a href="{{.Page.Home.Href}}">{{.SiteTitle}}</a></h2>
      <input type="text" id="search-input" placeholder="{{.Labels.Search}}" autocomplete="off">
    </div>
    <div class="sidebar-tree" id="sidebar-tree">
      {{.Sidebar}}
    </div>
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  {{end}}
  <main class="content{{if not .Page.Sidebar}} no-sidebar{{end}}">
    <div class="top-bar">
      {{if .Page.Sidebar}}<button class="menu-toggle" id="menu-toggle" aria-label="Toggle sidebar">
        <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
        </svg>
      </button>{{end}}
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">
        <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/>
        </svg>
        <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/>
        </svg>
      </button>
    </div>
    <article class="page-content">
      {{if eq .Kind "index"}}{{template "index" .}}
      {{else if eq .Kind "leaves"}}{{template "leaves" .}}
      {{else if eq .Kind "dictionary"}}{{template "dictionary" .}}
      {{else if eq .Kind "single"}}{{template "single" .}}
      {{else}}{{template "node-page" .}}{{end}}
    </article>
  </main>
  {{if .SearchIndex}}<script>{{.SearchIndex}}</script>{{else if .Page.Sidebar}}<script src="{{.Base}}assets/search-index.js"></script>{{end}}
  {{if .Script}}<script>{{.Script}}</script>{{else}}<script src="{{.Base}}assets/script.js"></script>{{end}}
</body>
</html>
`

// bodyTemplates hold the page bodies. The "node" template renders one node
// section and is shared by node pages and the single-page document, so both
// modes show the same content.
const bodyTemplates = `
{{define "meta"}}
<header class="site-header" id="__top">
  <h1>{{.SiteTitle}}</h1>
  {{with .Version}}<p class="version"><span class="meta-badge">{{$.Labels.Version}} {{.}}</span></p>{{end}}
  {{with .Description}}<p class="description">{{.}}</p>{{end}}
</header>
{{end}}

{{define "index"}}
{{template "meta" .}}
<ul class="start-links">
  <li><a class="start-link" href="{{.Page.Start.Href}}">{{.Labels.Start}}: {{.Page.Start.Label}}</a></li>
  <li><a href="{{.Page.Leaves.Href}}">{{.Page.Leaves.Label}}</a></li>
  {{with .Page.Dictionary}}<li><a href="{{.Href}}">{{.Label}}</a></li>{{end}}
</ul>
{{end}}

{{define "node-page"}}
{{range .Sections}}{{template "node" .}}{{end}}
{{with .Graph}}<section class="nav-graph"><h3>{{$.Labels.Graph}}</h3>{{.}}</section>{{end}}
{{end}}

{{define "node"}}
<section class="node" id="{{.Anchor}}">
  <nav class="breadcrumbs">
    {{.Labels.BackTo}}:
    <a href="{{.Home.Href}}">{{.Home.Label}}</a>
    {{range .Links.Ancestors}}<span class="sep">&rsaquo;</span> <a href="{{.Href}}">{{.Label}}</a> {{end}}
  </nav>
  <h2 class="node-title"><a href="{{.Links.Self}}">{{.Node.Label}}</a></h2>
  {{with .Node.URL}}<p class="node-url"><a href="{{.}}" rel="noopener">{{$.Labels.Info}}</a></p>{{end}}
  {{with .Body}}<div class="node-content{{if $.PlainText}} text{{end}}">{{.}}</div>{{end}}
  {{if .Assets}}
  <div class="gallery" aria-label="{{.Labels.Photos}}">
    {{range .Assets}}
    <figure>
      <a href="{{.Href}}"><img src="{{.Href}}" alt="{{.Alt}}" loading="lazy"></a>
      {{with .License}}<figcaption>{{if .URL}}<a href="{{.URL}}" rel="noopener">&copy; {{.Attribution}}</a>{{else}}&copy; {{.Attribution}}{{end}}</figcaption>{{end}}
    </figure>
    {{end}}
  </div>
  {{end}}
  {{if .Links.Branches}}
  <h3>{{.Labels.Options}}</h3>
  <ul class="branches">
    {{range .Links.Branches}}<li><a href="{{.Href}}">{{.Label}}</a> <span class="target">&rarr; {{.Target}}</span></li>
    {{end}}
  </ul>
  {{end}}
  {{if .Links.Children}}
  <h3>{{.Labels.Children}}</h3>
  <ul class="children">
    {{range .Links.Children}}<li><a href="{{.Href}}">{{.Label}}</a></li>
    {{end}}
  </ul>
  {{end}}
  {{if .Keywords}}
  <h3>{{.Labels.Keywords}}</h3>
  {{template "definitions" .Keywords}}
  {{end}}
  {{if .Links.Leaves}}
  <h3>{{.Labels.Results}}</h3>
  <ul class="results">
    {{range .Links.Leaves}}<li><a href="{{.Href}}">{{.Label}}</a></li>
    {{end}}
  </ul>
  {{end}}
</section>
{{end}}

{{define "definitions"}}
<table class="definitions">
  <tbody>
  {{range .}}{{$k := .Keyword}}{{range .Items}}
    <tr>
      <td>{{$k}}</td>
      <td>{{.Text}}{{with .Description}}<div class="definition-description">{{.}}</div>{{end}}</td>
      <td>{{with .Image}}<img src="{{.Href}}" alt="{{.Alt}}" loading="lazy">{{end}}</td>
    </tr>
  {{end}}{{end}}
  </tbody>
</table>
{{end}}

{{define "leaf-list"}}
<ul class="leaves">
  {{range .}}<li><a href="{{.Href}}">{{.Label}}</a></li>
  {{end}}
</ul>
{{end}}

{{define "leaves"}}
<h1 id="__leaves">{{.Labels.Leaves}}</h1>
{{template "leaf-list" .Page.LeafList}}
{{end}}

{{define "dictionary"}}
<h1 id="__dictionary">{{.Labels.Dictionary}}</h1>
{{template "definitions" .Page.Definitions}}
{{end}}

{{define "single"}}
{{template "meta" .}}
{{with .Graph}}<section class="nav-graph"><h3>{{$.Labels.Graph}}</h3>{{.}}</section>{{end}}
{{range .Sections}}{{template "node" .}}{{end}}
<section class="leaves-section">
  <h2 id="__leaves">{{.Labels.Leaves}}</h2>
  {{template "leaf-list" .Page.LeafList}}
</section>
{{if .Page.Definitions}}
<section class="dictionary-section">
  <h2 id="__dictionary">{{.Labels.Dictionary}}</h2>
  {{template "definitions" .Page.Definitions}}
</section>
{{end}}
{{end}}
`

// cssContent is the stylesheet written to assets/style.css or inlined.
const cssContent = `/* palette */
:root {
  --bg: #fff; --bg-alt: #f4f7f4; --bg-side: #eef2ee;
  --fg: #1e2a22; --fg-soft: #44524a; --fg-faint: #7d8a82;
  --line: #d5ddd7; --accent: #2f9e44; --accent-bg: #e6f6e9; --link: #2b8a3e;
  --hit: #fff3bf; --side-w: 17rem; --page-w: 56rem;
}
[data-theme="dark"] {
  --bg: #18201b; --bg-alt: #1e2822; --bg-side: #141a16;
  --fg: #d3e2d7; --fg-soft: #a8bcae; --fg-faint: #64786a;
  --line: #2b3a30; --accent: #8fd18f; --accent-bg: #1f2e22; --link: #8fd18f;
  --hit: #3a3a1c;
}

* { box-sizing: border-box; margin: 0; padding: 0; }
html { scroll-behavior: smooth; }
body { display: flex; min-height: 100vh; font: 16px/1.65 system-ui, sans-serif; color: var(--fg); background: var(--bg); }

/* sidebar */
.sidebar { position: fixed; inset: 0 auto 0 0; width: var(--side-w); z-index: 100; display: flex; flex-direction: column; overflow-y: auto; background: var(--bg-side); border-right: 1px solid var(--line); }
.sidebar-header { position: sticky; top: 0; z-index: 1; padding: 1.2rem 1rem .75rem; background: var(--bg-side); border-bottom: 1px solid var(--line); }
.project-title { margin-bottom: .75rem; font-weight: 700; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
.project-title a { color: var(--accent); text-decoration: none; }
#search-input { width: 100%; padding: .45rem .7rem; font-size: .85rem; color: var(--fg); background: var(--bg); border: 1px solid var(--line); border-radius: .35rem; outline: none; }
#search-input:focus { border-color: var(--accent); }
.sidebar-tree { flex: 1; padding: .5rem 0; overflow-y: auto; }
.sidebar-tree ul { list-style: none; }
.sidebar-tree ul ul { padding-left: .9rem; }
.sidebar-tree a { display: block; padding: .15rem 1rem .15rem 1.4rem; font-size: .82rem; color: var(--fg-faint); text-decoration: none; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
.sidebar-tree a:hover, .sidebar-tree a.active { color: var(--accent); background: var(--accent-bg); }
.sidebar-tree a.active { font-weight: 600; }
.sidebar-tree .dir { position: relative; }
.sidebar-tree .dir-toggle { position: absolute; left: .35rem; top: .2rem; cursor: pointer; user-select: none; color: var(--fg-soft); }
.sidebar-tree .dir-toggle::before { content: "+"; font-size: .8rem; }
.sidebar-tree .dir.expanded > .dir-toggle::before { content: "\2212"; }
.sidebar-tree .dir > ul, .sidebar-tree .hidden { display: none; }
.sidebar-tree .dir.expanded > ul { display: block; }
.sidebar-tree .home-link a { padding: .35rem 1rem; font-weight: 600; color: var(--accent); border-bottom: 1px solid var(--line); }
.sidebar-overlay { display: none; position: fixed; inset: 0; z-index: 99; background: rgb(0 0 0 / 40%); }
.sidebar-overlay.visible { display: block; }

/* frame */
.content { flex: 1; min-width: 0; margin-left: var(--side-w); }
.content.no-sidebar { margin-left: 0; }
.top-bar { position: sticky; top: 0; z-index: 50; display: flex; justify-content: flex-end; padding: .5rem 1.5rem; background: var(--bg); border-bottom: 1px solid var(--line); }
.menu-toggle, .theme-toggle { color: var(--fg); background: none; cursor: pointer; }
.menu-toggle { display: none; margin-right: auto; border: 0; }
.theme-toggle { display: flex; padding: .3rem .45rem; border: 1px solid var(--line); border-radius: .35rem; }
[data-theme="dark"] .moon-icon, [data-theme="light"] .sun-icon { display: none; }
.page-content { max-width: var(--page-w); margin: 0 auto; padding: 2rem 2.5rem 4rem; }

/* text */
.page-content h1 { margin-bottom: 1rem; padding-bottom: .5rem; font-size: 1.9rem; border-bottom: 2px solid var(--line); }
.page-content h2 { margin: 1.5rem 0 .75rem; font-size: 1.45rem; }
.page-content h3 { margin: 1.5rem 0 .5rem; font-size: 1.1rem; color: var(--fg-soft); }
.page-content p, .page-content ul { margin-bottom: 1rem; }
.page-content ul { padding-left: 1.5rem; }
.page-content a { color: var(--link); }
.meta-badge { display: inline-block; padding: 0 .6rem; font-size: .78rem; font-weight: 600; color: var(--accent); background: var(--accent-bg); border-radius: 1rem; }
.description, .node-content.text { white-space: pre-line; }
.description, .definition-description { color: var(--fg-soft); }

/* nodes */
.node { margin-bottom: 1.5rem; padding-bottom: 1.5rem; border-bottom: 1px solid var(--line); }
.node:target { background: var(--hit); }
.breadcrumbs { margin-bottom: .5rem; font-size: .82rem; color: var(--fg-faint); }
.breadcrumbs .sep { margin: 0 .25rem; }
.branches .target { font-size: .88rem; color: var(--fg-faint); }
.gallery { display: grid; grid-template-columns: repeat(auto-fill, minmax(12rem, 1fr)); gap: .75rem; margin: 1rem 0; }
.gallery img { width: 100%; height: auto; border: 1px solid var(--line); border-radius: .35rem; }
.gallery figcaption { font-size: .75rem; color: var(--fg-faint); }

/* keyword and dictionary tables */
.page-content table { width: 100%; margin-bottom: 1rem; font-size: .88rem; border-collapse: collapse; border: 1px solid var(--line); }
.page-content tbody td { padding: .6rem .85rem; vertical-align: top; border-bottom: 1px solid var(--line); }
.page-content tbody td:first-child { font-weight: 600; white-space: nowrap; }
.page-content tbody tr:nth-child(even) { background: var(--bg-alt); }
.definitions img { max-width: 10rem; }
.definition-description { font-size: .82rem; }

.nav-graph svg { width: 100%; height: auto; max-height: 70vh; }

@media (max-width: 768px) {
  .sidebar { transform: translateX(-100%); }
  .sidebar.open { transform: none; }
  .content { margin-left: 0; }
  .menu-toggle { display: block; }
  .page-content { padding: 1.5rem 1rem 3rem; }
}
@media print {
  .sidebar, .top-bar { display: none; }
  .content { margin-left: 0; }
}
`

// jsContent drives the theme toggle, the collapsible sidebar and the filter
// over window.TREE_INDEX.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var sidebarTree = document.getElementById("sidebar-tree");

  // ===== Theme toggle =====
  var themeToggle = document.getElementById("theme-toggle");

  function getStoredTheme() {
    try { return localStorage.getItem("treepages-theme"); } catch(e) { return null; }
  }

  function setTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("treepages-theme", theme); } catch(e) {}
  }

  var stored = getStoredTheme();
  if (stored) {
    setTheme(stored);
  } else if (window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches) {
    setTheme("dark");
  }

  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      var current = html.getAttribute("data-theme") || "light";
      setTheme(current === "dark" ? "light" : "dark");
    });
  }

  // ===== Sidebar toggle (mobile) =====
  var menuToggle = document.getElementById("menu-toggle");
  var sidebar = document.getElementById("sidebar");
  var overlay = document.getElementById("sidebar-overlay");

  function toggleSidebar() {
    sidebar.classList.toggle("open");
    overlay.classList.toggle("visible");
  }

  if (menuToggle && sidebar) menuToggle.addEventListener("click", toggleSidebar);
  if (overlay && sidebar) overlay.addEventListener("click", toggleSidebar);

  // ===== Node tree toggle =====
  document.querySelectorAll(".dir-toggle").forEach(function(toggle) {
    toggle.addEventListener("click", function() {
      this.parentElement.classList.toggle("expanded");
    });
  });

  // ===== Sidebar filter (with window.TREE_INDEX) =====
  var searchInput = document.getElementById("search-input");
  var searchIndex = window.TREE_INDEX || [];

  if (searchInput && sidebarTree) {
    var originalExpanded = [];
    sidebarTree.querySelectorAll(".dir").forEach(function(dir) {
      if (dir.classList.contains("expanded")) originalExpanded.push(dir);
    });

    searchInput.addEventListener("input", function() {
      var query = this.value.toLowerCase().trim();
      var items = sidebarTree.querySelectorAll("li[data-id]");

      if (query === "") {
        items.forEach(function(item) { item.classList.remove("hidden"); });
        sidebarTree.querySelectorAll(".dir").forEach(function(dir) {
          dir.classList.toggle("expanded", originalExpanded.indexOf(dir) !== -1);
        });
        return;
      }

      var matching = new Set();
      searchIndex.forEach(function(entry) {
        var haystack = (entry.label + " " + (entry.content || "")).toLowerCase();
        if (haystack.indexOf(query) !== -1) matching.add(entry.id);
      });

      // Deepest entries first, so parents see the state of their children.
      Array.from(items).reverse().forEach(function(item) {
        var self = matching.has(item.getAttribute("data-id"));
        var child = item.querySelector("li[data-id]:not(.hidden)") !== null;
        item.classList.toggle("hidden", !self && !child);
        if (child) item.classList.add("expanded");
      });
    });
  }
})();
`
