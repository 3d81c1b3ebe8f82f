package template

// StyleCSS is packaged as OEBPS/style.css and referenced by every page.
const StyleCSS = `
body {
  margin: 0 auto;
  padding: 1em 5%;
  line-height: 1.7;
  text-align: justify;
  color: #222222;
}

h1 {
  text-align: center;
  font-size: 1.4em;
  margin: 1.8em auto;
  font-weight: bold;
}

.chapter-content p {
  text-indent: 2em;
  margin: 0.8em 0;
}

hr {
  border: none;
  border-bottom: 1px solid #dddddd;
  margin: 1.5em 20%;
}

img {
  max-width: 100%;
  height: auto;
  display: block;
  margin: 1em auto;
}

body.cover {
  text-align: center;
  padding: 0;
}

.cover-image img {
  max-height: 100%;
  margin: 0 auto;
}

.chapter-unavailable {
  margin: 3em 10%;
  border: 1px solid #dddddd;
  padding: 1em;
  color: #555555;
}

em.missing-image {
  display: block;
  text-align: center;
  color: #888888;
  font-size: 0.9em;
}
`
